package server

import (
	"errors"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns the paginated public feed (public).
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	observability.FeedRequestsTotal.WithLabelValues("global").Inc()

	page := parsePage(c)
	posts, err := s.feedService.GlobalFeed(ctx, requestNow(), page)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"posts":     posts,
		"page":      page,
		"page_size": repository.FeedPageSize,
	})
}

// GetCategoryPosts returns the public posts of one category (public).
// Unpublished categories are indistinguishable from absent ones.
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	observability.FeedRequestsTotal.WithLabelValues("category").Inc()

	slug := c.Params("slug")
	page := parsePage(c)
	category, posts, err := s.feedService.CategoryFeed(ctx, slug, requestNow(), page)
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err)
	}

	return c.JSON(fiber.Map{
		"category":  category,
		"posts":     posts,
		"page":      page,
		"page_size": repository.FeedPageSize,
	})
}

// GetProfilePosts returns a user's posts (public). The profile owner also
// sees their drafts and scheduled posts.
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	observability.FeedRequestsTotal.WithLabelValues("profile").Inc()

	username := c.Params("username")
	page := parsePage(c)
	user, posts, err := s.feedService.ProfileFeed(ctx, username, viewerID(c), requestNow(), page)
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err)
	}

	return c.JSON(fiber.Map{
		"user":      user,
		"posts":     posts,
		"page":      page,
		"page_size": repository.FeedPageSize,
	})
}
