package handlers

import (
	"errors"

	"github.com/conectados/social-service/internal/auth"
	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.profileService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) UpsertMe(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.Upsert(userID, &req)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	profile, err := h.profileService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(profile)
}
