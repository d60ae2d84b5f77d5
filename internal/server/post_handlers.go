package server

import (
	"errors"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	ImageURL    string     `json:"image_url"`
	PubDate     *time.Time `json:"pub_date"`
	CategoryID  uint       `json:"category_id"`
	LocationID  *uint      `json:"location_id"`
	IsPublished *bool      `json:"is_published"`
}

// GetPost returns a single post with its comments (public). A post the
// viewer may not see yields 404, never 403.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, comments, err := s.postService.GetPostDetail(ctx, postID, viewerID(c), requestNow())
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// CreatePost creates a new post (protected).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	input := service.CreatePostInput{
		AuthorID:   userID,
		Title:      req.Title,
		Text:       req.Text,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
	}
	if req.PubDate != nil {
		input.PubDate = *req.PubDate
	}

	post, err := s.postService.CreatePost(ctx, input)
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "VALIDATION_ERROR":
				status = fiber.StatusBadRequest
			case "UNAUTHORIZED":
				status = fiber.StatusUnauthorized
			}
		}
		return models.RespondWithError(c, status, err)
	}

	observability.PostsCreatedTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost updates a post (author only; everyone else is redirected to
// the post detail).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	input := service.UpdatePostInput{
		ActorID:     userID,
		PostID:      postID,
		Title:       req.Title,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
		IsPublished: req.IsPublished,
	}
	if req.PubDate != nil {
		input.PubDate = *req.PubDate
	}

	post, err := s.postService.UpdatePost(ctx, input)
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "VALIDATION_ERROR":
				status = fiber.StatusBadRequest
			case "NOT_FOUND":
				status = fiber.StatusNotFound
			case "UNAUTHORIZED":
				status = fiber.StatusUnauthorized
			case "REDIRECT":
				observability.AccessDeniedRedirectsTotal.WithLabelValues("post").Inc()
			}
		}
		return models.RespondWithError(c, status, err)
	}

	return c.JSON(post)
}

// DeletePost deletes a post and its comments (author only).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, postID, userID); err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "NOT_FOUND":
				status = fiber.StatusNotFound
			case "UNAUTHORIZED":
				status = fiber.StatusUnauthorized
			case "REDIRECT":
				observability.AccessDeniedRedirectsTotal.WithLabelValues("post").Inc()
			}
		}
		return models.RespondWithError(c, status, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
