package repository

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_GetBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	seedCategory(t, db, "travel", true)

	category, err := repo.GetBySlug(context.Background(), "travel")
	require.NoError(t, err)
	assert.Equal(t, "travel", category.Slug)

	_, err = repo.GetBySlug(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, models.IsNotFoundError(err))
}

func TestCategoryRepository_ListPublished(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	seedCategory(t, db, "zebra", true)
	seedCategory(t, db, "alpha", true)
	seedCategory(t, db, "secret", false)

	categories, err := repo.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	// Alphabetical by title.
	assert.Equal(t, "alpha", categories[0].Slug)
	assert.Equal(t, "zebra", categories[1].Slug)
}

func TestCategoryRepository_Create_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	seedCategory(t, db, "travel", true)

	err := repo.Create(context.Background(), &models.Category{
		Title:       "Travel again",
		Description: "dup",
		Slug:        "travel",
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCategoryRepository_Delete_ClearsPostReferences(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	now := time.Now().UTC()

	author := seedUser(t, db, "author")
	category := seedCategory(t, db, "doomed", true)
	post := seedPost(t, db, author, category, now.Add(-time.Hour), true)

	require.NoError(t, repo.Delete(context.Background(), category.ID))

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Nil(t, got.CategoryID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
