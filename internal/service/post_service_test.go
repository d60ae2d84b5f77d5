package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listFeedFn       func(context.Context, time.Time, int) ([]*models.Post, error)
	listByCategoryFn func(context.Context, uint, time.Time, int) ([]*models.Post, error)
	listByAuthorFn   func(context.Context, uint, time.Time, int, bool) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListFeed(ctx context.Context, now time.Time, page int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, now, page)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, categoryID uint, now time.Time, page int) ([]*models.Post, error) {
	return s.listByCategoryFn(ctx, categoryID, now, page)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, now time.Time, page int, includeHidden bool) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, now, page, includeHidden)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFeedFn: func(_ context.Context, _ time.Time, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listByCategoryFn: func(_ context.Context, _ uint, _ time.Time, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _ time.Time, _ int, _ bool) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn        func(context.Context, *models.Category) error
	getByIDFn       func(context.Context, uint) (*models.Category, error)
	getBySlugFn     func(context.Context, string) (*models.Category, error)
	listPublishedFn func(context.Context) ([]models.Category, error)
	updateFn        func(context.Context, *models.Category) error
	deleteFn        func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) ListPublished(ctx context.Context) ([]models.Category, error) {
	return s.listPublishedFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slug, IsPublished: true}, nil
		},
		listPublishedFn: func(_ context.Context) ([]models.Category, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getForPostFn func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetForPost(ctx context.Context, commentID, postID uint) (*models.Comment, error) {
	return s.getForPostFn(ctx, commentID, postID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getForPostFn: func(_ context.Context, commentID, postID uint) (*models.Comment, error) {
			return &models.Comment{ID: commentID, PostID: postID}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsNotFoundError(err), "expected NOT_FOUND, got %T: %v", err, err)
}

// assertRedirectError asserts that err is the ownership redirect pointing at
// the given location.
func assertRedirectError(t *testing.T, err error, location string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "REDIRECT", appErr.Code)
	assert.Equal(t, location, appErr.Location)
}

func newPostService(postRepo *postRepoStub, categoryRepo *categoryRepoStub, commentRepo *commentRepoStub) *PostService {
	if postRepo == nil {
		postRepo = noopPostRepo()
	}
	if categoryRepo == nil {
		categoryRepo = noopCategoryRepo()
	}
	if commentRepo == nil {
		commentRepo = noopCommentRepo()
	}
	return NewPostService(postRepo, categoryRepo, commentRepo)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := newPostService(nil, nil, nil)
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{Title: "t", Text: "x", CategoryID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "x", CategoryID: 1})
		assertValidationError(t, err)
	})

	t.Run("title too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			AuthorID:   1,
			Title:      strings.Repeat("x", maxTitleLength+1),
			Text:       "x",
			CategoryID: 1,
		})
		assertValidationError(t, err)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Title: "t", CategoryID: 1})
		assertValidationError(t, err)
	})

	t.Run("missing category", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Title: "t", Text: "x"})
		assertValidationError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		categoryRepo := noopCategoryRepo()
		categoryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", id)
		}
		svc2 := newPostService(nil, categoryRepo, nil)
		_, err := svc2.CreatePost(ctx, CreatePostInput{AuthorID: 1, Title: "t", Text: "x", CategoryID: 42})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_Defaults(t *testing.T) {
	t.Parallel()

	var created *models.Post
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		created = p
		return nil
	}

	svc := newPostService(postRepo, nil, nil)
	before := time.Now().UTC()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:   1,
		Title:      "Morning",
		Text:       "text",
		CategoryID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), post.ID)

	require.NotNil(t, created)
	assert.True(t, created.IsPublished)
	assert.False(t, created.PubDate.Before(before), "empty pub date defaults to now")
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, uint(2), *created.CategoryID)
}

func TestPostService_GetPostDetail_Visibility(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	draft := &models.Post{ID: 1, AuthorID: 10, IsPublished: false, PubDate: now.Add(-time.Hour)}

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return draft, nil }
	svc := newPostService(postRepo, nil, nil)
	ctx := context.Background()

	t.Run("stranger gets not found", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.GetPostDetail(ctx, 1, 99, now)
		assertNotFoundError(t, err)
	})

	t.Run("anonymous gets not found", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.GetPostDetail(ctx, 1, 0, now)
		assertNotFoundError(t, err)
	})

	t.Run("author sees own draft", func(t *testing.T) {
		t.Parallel()
		post, comments, err := svc.GetPostDetail(ctx, 1, 10, now)
		require.NoError(t, err)
		assert.Equal(t, uint(1), post.ID)
		assert.Empty(t, comments)
	})
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 10, IsPublished: true, PubDate: time.Now().Add(-time.Hour)}, nil
	}
	svc := newPostService(postRepo, nil, nil)
	ctx := context.Background()

	t.Run("non-author is redirected to the post", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdatePost(ctx, UpdatePostInput{ActorID: 2, PostID: 5, Title: "t", Text: "x", CategoryID: 1})
		assertRedirectError(t, err, "/api/posts/5")
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdatePost(ctx, UpdatePostInput{PostID: 5, Title: "t", Text: "x", CategoryID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("author updates", func(t *testing.T) {
		t.Parallel()
		post, err := svc.UpdatePost(ctx, UpdatePostInput{ActorID: 10, PostID: 5, Title: "t", Text: "x", CategoryID: 1})
		require.NoError(t, err)
		assert.Equal(t, uint(5), post.ID)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	deleted := uint(0)
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 10}, nil
	}
	postRepo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := newPostService(postRepo, nil, nil)

	t.Run("non-author is redirected", func(t *testing.T) {
		err := svc.DeletePost(context.Background(), 3, 2)
		assertRedirectError(t, err, "/api/posts/3")
		assert.Zero(t, deleted)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, svc.DeletePost(context.Background(), 3, 10))
		assert.Equal(t, uint(3), deleted)
	})
}
