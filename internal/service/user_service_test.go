package service

import (
	"context"
	"testing"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetProfile(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username != "alice" {
			return nil, models.NewNotFoundError("User", username)
		}
		return &models.User{ID: 1, Username: "alice"}, nil
	}
	svc := NewUserService(userRepo)

	user, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetProfile(context.Background(), "bob")
	assertNotFoundError(t, err)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{Username: "alice", Email: "a@example.com"})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty username", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Email: "a@example.com"})
		assertValidationError(t, err)
	})

	t.Run("reserved username", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Username: "me", Email: "a@example.com"})
		assertValidationError(t, err)
	})

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Username: "alice"})
		assertValidationError(t, err)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var saved *models.User
		userRepo := noopUserRepo()
		userRepo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(userRepo)
		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{
			UserID:    1,
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			Bio:       "writes about travel",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		require.NotNil(t, saved)
		assert.Equal(t, "writes about travel", saved.Bio)
	})
}
