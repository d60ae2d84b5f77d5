// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// FeedPageSize is the fixed page size for every post listing.
const FeedPageSize = 10

// PostRepository defines persistence operations for posts. Every listing
// method takes now explicitly: the visibility cutoff is evaluated per call,
// never baked into a reusable query object.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListFeed(ctx context.Context, now time.Time, page int) ([]*models.Post, error)
	ListByCategory(ctx context.Context, categoryID uint, now time.Time, page int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, now time.Time, page int, includeHidden bool) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.annotated(readDB(r.db).WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListFeed(ctx context.Context, now time.Time, page int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.paginate(
		r.publiclyVisible(r.annotated(readDB(r.db).WithContext(ctx)), now).
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.is_published = ?", true),
		page,
	).Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint, now time.Time, page int) ([]*models.Post, error) {
	// The category itself was resolved (and its published flag checked)
	// before this call; no category join is needed here.
	var posts []*models.Post
	err := r.paginate(
		r.publiclyVisible(r.annotated(readDB(r.db).WithContext(ctx)), now).
			Where("posts.category_id = ?", categoryID),
		page,
	).Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, now time.Time, page int, includeHidden bool) ([]*models.Post, error) {
	q := r.annotated(readDB(r.db).WithContext(ctx)).
		Where("posts.author_id = ?", authorID)
	if !includeHidden {
		// Same filter as the global feed: strangers never see drafts,
		// scheduled posts, or posts in hidden categories.
		q = r.publiclyVisible(q, now).
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.is_published = ?", true)
	}

	var posts []*models.Post
	if err := r.paginate(q, page).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes a post together with its comments in one transaction. The
// FK constraints declare the same cascade for PostgreSQL, but sqlite test
// databases do not enforce referential actions by default, so the policy is
// spelled out here and holds on every dialect.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// annotated adds the comment_count subquery and the shared preloads/ordering
// every listing uses.
func (r *postRepository) annotated(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC")
}

// publiclyVisible narrows to posts any stranger may see at the given instant,
// except for the category check, which each caller handles per its contract.
func (r *postRepository) publiclyVisible(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("posts.is_published = ? AND posts.pub_date <= ?", true, now)
}

func (r *postRepository) paginate(db *gorm.DB, page int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	return db.Limit(FeedPageSize).Offset((page - 1) * FeedPageSize)
}
