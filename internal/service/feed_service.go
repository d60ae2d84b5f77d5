package service

import (
	"context"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

// FeedService assembles the paginated post listings. Every listing is
// computed against the now it is handed; nothing is cached between calls.
type FeedService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

func NewFeedService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, userRepo repository.UserRepository) *FeedService {
	return &FeedService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// GlobalFeed lists publicly visible posts, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, now time.Time, page int) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, now, page)
}

// CategoryFeed lists the publicly visible posts of one category. An
// unpublished category is treated exactly like an absent one.
func (s *FeedService) CategoryFeed(ctx context.Context, slug string, now time.Time, page int) (*models.Category, []*models.Post, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !category.IsPublished {
		return nil, nil, models.NewNotFoundError("Category", slug)
	}
	posts, err := s.postRepo.ListByCategory(ctx, category.ID, now, page)
	if err != nil {
		return nil, nil, err
	}
	return category, posts, nil
}

// ProfileFeed lists a user's posts. The profile owner sees everything they
// wrote, drafts and scheduled posts included; everyone else gets the same
// visibility rules as the global feed.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, viewerID uint, now time.Time, page int) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	includeHidden := viewerID != 0 && viewerID == user.ID
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, now, page, includeHidden)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}
