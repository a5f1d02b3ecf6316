package handlers

import (
	"errors"

	"github.com/conectados/social-service/internal/auth"
	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	community, err := h.communityService.Create(userID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

func (h *CommunityHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c, 10)
	query := dto.CommunityListQuery{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	communities, total, err := h.communityService.List(&query)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"communities": communities,
		"pagination":  dto.NewPagination(total, page, limit),
	})
}

func (h *CommunityHandler) Search(c *fiber.Ctx) error {
	communities, err := h.communityService.Search(c.Query("q"), c.Query("category"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

func (h *CommunityHandler) Mine(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c, 10)

	memberships, total, err := h.communityService.UserCommunities(userID, page, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"memberships": memberships,
		"pagination":  dto.NewPagination(total, page, limit),
	})
}

func (h *CommunityHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}

	community, membership, err := h.communityService.Get(communityID, userID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"community":  community,
		"membership": membership,
		"is_member":  membership != nil,
	})
}

func (h *CommunityHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}

	var req dto.UpdateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	community, err := h.communityService.Update(communityID, userID, &req)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(community)
}

func (h *CommunityHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}

	if err := h.communityService.Delete(communityID, userID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Community deleted successfully"})
}

func (h *CommunityHandler) Join(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}

	if err := h.communityService.Join(communityID, userID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Joined community successfully"})
}

func (h *CommunityHandler) Leave(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}

	if err := h.communityService.Leave(communityID, userID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left community successfully"})
}

func (h *CommunityHandler) Members(c *fiber.Ctx) error {
	communityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid community ID")
	}
	page, limit := pageParams(c, 20)

	members, total, err := h.communityService.Members(communityID, page, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"members":    members,
		"pagination": dto.NewPagination(total, page, limit),
	})
}

func (h *CommunityHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCommunityFieldsRequired),
		errors.Is(err, services.ErrCreatorCannotLeave),
		errors.Is(err, services.ErrSearchTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, services.ErrCommunityNotFound),
		errors.Is(err, services.ErrMembershipNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrNotCommunityAdmin),
		errors.Is(err, services.ErrNotCommunityCreator):
		return forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		return conflict(c, err.Error())
	}
	return internalError(c)
}
