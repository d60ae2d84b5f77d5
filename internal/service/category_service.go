package service

import (
	"context"
	"fmt"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

type CategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished *bool
}

func validateCategoryInput(input CategoryInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return models.NewValidationError("title is required")
	}
	if len(input.Title) > maxTitleLength {
		return models.NewValidationError(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.NewValidationError("description is required")
	}
	if err := validation.ValidateCategorySlug(input.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.ListPublished(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	category := &models.Category{
		Title:       input.Title,
		Description: input.Description,
		Slug:        input.Slug,
		IsPublished: true,
	}
	if input.IsPublished != nil {
		category.IsPublished = *input.IsPublished
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	category.Title = input.Title
	category.Description = input.Description
	category.Slug = input.Slug
	if input.IsPublished != nil {
		category.IsPublished = *input.IsPublished
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category; posts filed under it survive with
// their category cleared, which hides them from public listings until the
// author refiles them.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
