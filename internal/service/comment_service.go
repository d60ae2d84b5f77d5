package service

import (
	"context"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

const maxCommentLength = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

type AddCommentInput struct {
	AuthorID uint
	PostID   uint
	Text     string
}

type EditCommentInput struct {
	ActorID   uint
	PostID    uint
	CommentID uint
	Text      string
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("text is required")
	}
	if len(text) > maxCommentLength {
		return models.NewValidationError("comment is too long")
	}
	return nil
}

// AddComment attaches a comment to an existing post. Only existence of the
// post is required, not visibility.
func (s *CommentService) AddComment(ctx context.Context, input AddCommentInput) (*models.Comment, error) {
	if input.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	if err := validateCommentText(input.Text); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, input.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     input.Text,
		AuthorID: input.AuthorID,
		PostID:   input.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// guardCommentAuthor resolves a comment within its post and enforces the
// ownership rule: a comment addressed under the wrong post is not found, and
// a non-author is redirected to the post detail page.
func (s *CommentService) guardCommentAuthor(ctx context.Context, commentID, postID, actorID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetForPost(ctx, commentID, postID)
	if err != nil {
		return nil, err
	}
	if actorID == 0 {
		return nil, models.NewUnauthorizedError("authentication required")
	}
	if comment.AuthorID != actorID {
		return nil, models.NewRedirectError(PostDetailPath(postID))
	}
	return comment, nil
}

func (s *CommentService) EditComment(ctx context.Context, input EditCommentInput) (*models.Comment, error) {
	comment, err := s.guardCommentAuthor(ctx, input.CommentID, input.PostID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := validateCommentText(input.Text); err != nil {
		return nil, err
	}
	comment.Text = input.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, postID, actorID uint) error {
	comment, err := s.guardCommentAuthor(ctx, commentID, postID, actorID)
	if err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}
