package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

const maxTitleLength = 256

// PostDetailPath is the canonical detail location for a post. Denied
// mutations redirect here instead of failing with a status error.
func PostDetailPath(postID uint) string {
	return fmt.Sprintf("/api/posts/%d", postID)
}

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
	}
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Text       string
	ImageURL   string
	PubDate    time.Time
	CategoryID uint
	LocationID *uint
}

type UpdatePostInput struct {
	ActorID     uint
	PostID      uint
	Title       string
	Text        string
	ImageURL    string
	PubDate     time.Time
	CategoryID  uint
	LocationID  *uint
	IsPublished *bool
}

func (s *PostService) validatePostFields(ctx context.Context, title, text string, categoryID uint) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("title is required")
	}
	if len(title) > maxTitleLength {
		return models.NewValidationError(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("text is required")
	}
	if categoryID == 0 {
		return models.NewValidationError("category_id is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if models.IsNotFoundError(err) {
			return models.NewValidationError("category does not exist")
		}
		return err
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	if input.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	if err := s.validatePostFields(ctx, input.Title, input.Text, input.CategoryID); err != nil {
		return nil, err
	}

	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now().UTC()
	}

	categoryID := input.CategoryID
	post := &models.Post{
		Title:       input.Title,
		Text:        input.Text,
		ImageURL:    input.ImageURL,
		PubDate:     pubDate,
		IsPublished: true,
		AuthorID:    input.AuthorID,
		CategoryID:  &categoryID,
		LocationID:  input.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostDetail returns a post together with its comments. Posts the
// viewer may not see are indistinguishable from absent ones.
func (s *PostService) GetPostDetail(ctx context.Context, postID, viewerID uint, now time.Time) (*models.Post, []*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if !post.ViewableBy(now, viewerID) {
		return nil, nil, models.NewNotFoundError("Post", postID)
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// guardAuthor loads the post and enforces the ownership rule for
// mutations: a non-author is bounced to the post detail page rather
// than shown an error.
func (s *PostService) guardAuthor(ctx context.Context, postID, actorID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actorID == 0 {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	if post.AuthorID != actorID {
		return nil, models.NewRedirectError(PostDetailPath(post.ID))
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, input UpdatePostInput) (*models.Post, error) {
	post, err := s.guardAuthor(ctx, input.PostID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := s.validatePostFields(ctx, input.Title, input.Text, input.CategoryID); err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Text = input.Text
	post.ImageURL = input.ImageURL
	if !input.PubDate.IsZero() {
		post.PubDate = input.PubDate
	}
	categoryID := input.CategoryID
	post.CategoryID = &categoryID
	post.LocationID = input.LocationID
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, actorID uint) error {
	post, err := s.guardAuthor(ctx, postID, actorID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}
