package service

import (
	"context"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile lets a user edit their own profile fields. Identity is
// taken from the authenticated actor, never from the payload.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.User, error) {
	if input.UserID == 0 {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, models.NewValidationError("email is required")
	}

	user.Username = input.Username
	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Bio = input.Bio

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
