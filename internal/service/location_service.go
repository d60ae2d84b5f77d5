package service

import (
	"context"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

type LocationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

type LocationInput struct {
	Name        string
	IsPublished *bool
}

func (s *LocationService) ListLocations(ctx context.Context) ([]models.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *LocationService) CreateLocation(ctx context.Context, input LocationInput) (*models.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewValidationError("name is required")
	}
	location := &models.Location{
		Name:        input.Name,
		IsPublished: true,
	}
	if input.IsPublished != nil {
		location.IsPublished = *input.IsPublished
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id uint, input LocationInput) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewValidationError("name is required")
	}
	location.Name = input.Name
	if input.IsPublished != nil {
		location.IsPublished = *input.IsPublished
	}
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes the location and detaches it from posts; the
// posts themselves stay published.
func (s *LocationService) DeleteLocation(ctx context.Context, id uint) error {
	if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, id)
}
