package handlers

import (
	"errors"

	"github.com/conectados/social-service/internal/auth"
	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
}

func NewDiscoveryHandler(discoveryService *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService}
}

// AvailableUsers lists users the caller can still discover: the auth
// directory minus self, friends, pending requests, and blocked parties.
func (h *DiscoveryHandler) AvailableUsers(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c, 20)

	users, total, err := h.discoveryService.AvailableUsers(userID, auth.BearerToken(c), c.Query("q"), page, limit)
	if err != nil {
		if errors.Is(err, services.ErrAuthServiceUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Auth service unavailable",
			})
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": dto.NewPagination(total, page, limit),
	})
}
