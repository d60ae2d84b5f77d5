package server

import (
	"errors"

	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

type locationRequest struct {
	Name        string `json:"name"`
	IsPublished *bool  `json:"is_published"`
}

// AdminListLocations lists every location (admin only).
func (s *Server) AdminListLocations(c *fiber.Ctx) error {
	locations, err := s.locationService.ListLocations(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(locations)
}

// AdminCreateLocation creates a location (admin only).
func (s *Server) AdminCreateLocation(c *fiber.Ctx) error {
	var req locationRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.CreateLocation(c.UserContext(), service.LocationInput{
		Name:        req.Name,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			status = fiber.StatusBadRequest
		}
		return models.RespondWithError(c, status, err)
	}

	return c.Status(fiber.StatusCreated).JSON(location)
}

// AdminUpdateLocation updates a location (admin only).
func (s *Server) AdminUpdateLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req locationRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.UpdateLocation(c.UserContext(), id, service.LocationInput{
		Name:        req.Name,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case "VALIDATION_ERROR":
				status = fiber.StatusBadRequest
			case "NOT_FOUND":
				status = fiber.StatusNotFound
			}
		}
		return models.RespondWithError(c, status, err)
	}

	return c.JSON(location)
}

// AdminDeleteLocation deletes a location and detaches it from posts (admin only).
func (s *Server) AdminDeleteLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.locationService.DeleteLocation(c.UserContext(), id); err != nil {
		status := fiber.StatusInternalServerError
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			status = fiber.StatusNotFound
		}
		return models.RespondWithError(c, status, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
