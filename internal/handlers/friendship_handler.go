package handlers

import (
	"errors"
	"strconv"

	"github.com/conectados/social-service/internal/auth"
	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/conectados/social-service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

func (h *FriendshipHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SendFriendRequestRequest
	if err := c.BodyParser(&req); err != nil || req.FriendID == uuid.Nil {
		return badRequest(c, "friend_id is required")
	}

	friendship, err := h.friendshipService.SendRequest(userID, req.FriendID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(friendship)
}

func (h *FriendshipHandler) Accept(c *fiber.Ctx) error {
	return h.respond(c, h.friendshipService.Accept)
}

func (h *FriendshipHandler) Reject(c *fiber.Ctx) error {
	return h.respond(c, h.friendshipService.Reject)
}

func (h *FriendshipHandler) respond(c *fiber.Ctx, op func(uuid.UUID, uuid.UUID) (*models.Friendship, error)) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	friendshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid friendship ID")
	}

	friendship, err := op(friendshipID, userID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(friendship)
}

// List serves both listings on the same path: without a type filter it is the
// accepted friends page, with type=received|sent the pending requests page.
func (h *FriendshipHandler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c, 20)

	if kind := c.Query("type"); kind != "" {
		requests, total, err := h.friendshipService.ListPending(userID, kind, page, limit)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(fiber.Map{
			"requests":   requests,
			"pagination": dto.NewPagination(total, page, limit),
		})
	}

	rows, total, err := h.friendshipService.ListFriends(userID, page, limit)
	if err != nil {
		return h.mapError(c, err)
	}

	friends := make([]dto.FriendSummary, len(rows))
	for i, f := range rows {
		since := f.CreatedAt
		if f.RespondedAt != nil {
			since = *f.RespondedAt
		}
		friends[i] = dto.FriendSummary{
			FriendshipID: f.ID,
			FriendID:     f.CounterpartOf(userID),
			Status:       f.Status,
			Since:        since,
			RequestedAt:  f.RequestedAt,
		}
	}
	return c.JSON(fiber.Map{
		"friends":    friends,
		"pagination": dto.NewPagination(total, page, limit),
	})
}

func (h *FriendshipHandler) Status(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	status, err := h.friendshipService.Status(userID, targetID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(status)
}

func (h *FriendshipHandler) Remove(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	friendshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid friendship ID")
	}

	if err := h.friendshipService.Remove(friendshipID, userID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friendship removed successfully"})
}

func (h *FriendshipHandler) Block(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil || req.BlockedID == uuid.Nil {
		return badRequest(c, "blocked_id is required")
	}

	friendship, err := h.friendshipService.Block(userID, req.BlockedID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(friendship)
}

func (h *FriendshipHandler) Unblock(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.friendshipService.Unblock(userID, targetID); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked successfully"})
}

func (h *FriendshipHandler) ListBlocked(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	blocked, err := h.friendshipService.ListBlocked(userID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"blocked": blocked})
}

func (h *FriendshipHandler) mapError(c *fiber.Ctx, err error) error {
	var cooldown *services.CooldownError
	if errors.As(err, &cooldown) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":          true,
			"message":        cooldown.Error(),
			"days_remaining": cooldown.DaysRemaining,
		})
	}

	switch {
	case errors.Is(err, services.ErrSelfFriendship),
		errors.Is(err, services.ErrSelfBlock),
		errors.Is(err, services.ErrInvalidRequestType):
		return badRequest(c, err.Error())
	case errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrFriendshipNotFound),
		errors.Is(err, services.ErrBlockNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrNotAddressee),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrBlockedRelationship):
		return forbidden(c, err.Error())
	case errors.Is(err, services.ErrRequestAlreadySent),
		errors.Is(err, services.ErrRequestAlreadyReceived),
		errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrAlreadyResponded):
		return conflict(c, err.Error())
	}
	return internalError(c)
}

func pageParams(c *fiber.Ctx, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
