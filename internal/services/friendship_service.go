package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfFriendship         = errors.New("cannot send a friend request to yourself")
	ErrRecipientNotFound      = errors.New("recipient user not found")
	ErrRequestAlreadySent     = errors.New("you already sent a friend request to this user")
	ErrRequestAlreadyReceived = errors.New("this user already sent you a friend request")
	ErrAlreadyFriends         = errors.New("you are already friends")
	ErrBlockedRelationship    = errors.New("cannot send a friend request to this user")
	ErrFriendshipNotFound     = errors.New("friendship not found")
	ErrNotAddressee           = errors.New("only the recipient can respond to this request")
	ErrNotParticipant         = errors.New("you are not part of this friendship")
	ErrAlreadyResponded       = errors.New("friend request was already responded")
	ErrSelfBlock              = errors.New("cannot block yourself")
	ErrBlockNotFound          = errors.New("no block exists for this user")
	ErrInvalidRequestType     = errors.New(`type must be "received" or "sent"`)
)

// CooldownError reports a resend attempt inside the post-rejection window.
type CooldownError struct {
	DaysRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("request was previously rejected, retry in %d days", e.DaysRemaining)
}

// FriendshipService owns the relationship rows and their legal transitions.
// A pair may be stored in either order, so every pair lookup matches both
// directions rather than assuming a canonical ordering.
type FriendshipService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFriendshipService(db *gorm.DB) *FriendshipService {
	return &FriendshipService{db: db, now: time.Now}
}

func (s *FriendshipService) findPair(userA, userB uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	err := s.db.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// SendRequest creates a pending relationship from requester to addressee.
// A stale rejected row past the cooldown window is replaced by a fresh one.
func (s *FriendshipService) SendRequest(requesterID, addresseeID uuid.UUID) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfFriendship
	}

	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", addresseeID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}

	existing, err := s.findPair(requesterID, addresseeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relationship: %w", err)
	}

	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusPending:
			if existing.RequesterID == requesterID {
				return nil, ErrRequestAlreadySent
			}
			return nil, ErrRequestAlreadyReceived
		case models.FriendshipStatusAccepted:
			return nil, ErrAlreadyFriends
		case models.FriendshipStatusBlocked:
			return nil, ErrBlockedRelationship
		case models.FriendshipStatusRejected:
			elapsed := 0
			if existing.RespondedAt != nil {
				elapsed = int(s.now().Sub(*existing.RespondedAt).Hours() / 24)
			}
			if elapsed < models.RejectCooldownDays {
				return nil, &CooldownError{DaysRemaining: models.RejectCooldownDays - elapsed}
			}
			if err := s.db.Delete(existing).Error; err != nil {
				return nil, fmt.Errorf("failed to clear stale rejection: %w", err)
			}
		}
	}

	friendship := models.Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipStatusPending,
		RequestedAt: s.now(),
		IsActive:    true,
	}
	if err := s.db.Create(&friendship).Error; err != nil {
		// Two concurrent sends can both pass the pair lookup; the unique
		// index decides the winner and the loser reports the same conflict
		// a sequential caller would have seen.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRequestAlreadySent
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return &friendship, nil
}

func (s *FriendshipService) respond(friendshipID, userID uuid.UUID, status string) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.db.First(&f, "id = ?", friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to load friendship: %w", err)
	}

	if f.AddresseeID != userID {
		return nil, ErrNotAddressee
	}
	if f.Status != models.FriendshipStatusPending {
		return nil, ErrAlreadyResponded
	}

	respondedAt := s.now()
	if err := s.db.Model(&f).Updates(map[string]interface{}{
		"status":       status,
		"responded_at": respondedAt,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update friendship: %w", err)
	}
	f.Status = status
	f.RespondedAt = &respondedAt
	return &f, nil
}

// Accept marks a pending request as accepted. Only the addressee may accept.
func (s *FriendshipService) Accept(friendshipID, userID uuid.UUID) (*models.Friendship, error) {
	return s.respond(friendshipID, userID, models.FriendshipStatusAccepted)
}

// Reject marks a pending request as rejected, starting the resend cooldown.
func (s *FriendshipService) Reject(friendshipID, userID uuid.UUID) (*models.Friendship, error) {
	return s.respond(friendshipID, userID, models.FriendshipStatusRejected)
}

// Block puts the pair into the blocked state regardless of its current one.
// An existing row is overwritten in place, reassigning the requester side to
// the blocker; an accepted friendship is silently converted.
func (s *FriendshipService) Block(actorID, targetID uuid.UUID) (*models.Friendship, error) {
	if actorID == targetID {
		return nil, ErrSelfBlock
	}

	existing, err := s.findPair(actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relationship: %w", err)
	}

	if existing != nil {
		if err := s.db.Model(existing).Updates(map[string]interface{}{
			"requester_id": actorID,
			"addressee_id": targetID,
			"status":       models.FriendshipStatusBlocked,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to block user: %w", err)
		}
		existing.RequesterID = actorID
		existing.AddresseeID = targetID
		existing.Status = models.FriendshipStatusBlocked
		return existing, nil
	}

	friendship := models.Friendship{
		ID:          uuid.New(),
		RequesterID: actorID,
		AddresseeID: targetID,
		Status:      models.FriendshipStatusBlocked,
		RequestedAt: s.now(),
		IsActive:    true,
	}
	if err := s.db.Create(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Block(actorID, targetID)
		}
		return nil, fmt.Errorf("failed to block user: %w", err)
	}
	return &friendship, nil
}

// Unblock deletes a block previously placed by actorID on targetID.
func (s *FriendshipService) Unblock(actorID, targetID uuid.UUID) error {
	result := s.db.
		Where("requester_id = ? AND addressee_id = ? AND status = ?",
			actorID, targetID, models.FriendshipStatusBlocked).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return fmt.Errorf("failed to unblock user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// Remove deletes the relationship row: cancels a pending request or unfriends.
func (s *FriendshipService) Remove(friendshipID, userID uuid.UUID) error {
	var f models.Friendship
	if err := s.db.First(&f, "id = ?", friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendshipNotFound
		}
		return fmt.Errorf("failed to load friendship: %w", err)
	}
	if !f.Involves(userID) {
		return ErrNotParticipant
	}
	if err := s.db.Delete(&f).Error; err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}

// ListFriends returns the caller's accepted relationships, newest first.
func (s *FriendshipService) ListFriends(userID uuid.UUID, page, limit int) ([]models.Friendship, int64, error) {
	var rows []models.Friendship
	var total int64

	query := s.db.Model(&models.Friendship{}).
		Where("status = ? AND is_active = ?", models.FriendshipStatusAccepted, true).
		Where("requester_id = ? OR addressee_id = ?", userID, userID)
	query.Count(&total)

	if err := query.Order("responded_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list friends: %w", err)
	}
	return rows, total, nil
}

// ListPending returns pending requests received by or sent from the caller.
func (s *FriendshipService) ListPending(userID uuid.UUID, kind string, page, limit int) ([]models.Friendship, int64, error) {
	query := s.db.Model(&models.Friendship{}).
		Where("status = ? AND is_active = ?", models.FriendshipStatusPending, true)

	switch kind {
	case "received":
		query = query.Where("addressee_id = ?", userID)
	case "sent":
		query = query.Where("requester_id = ?", userID)
	default:
		return nil, 0, ErrInvalidRequestType
	}

	var total int64
	query.Count(&total)

	var rows []models.Friendship
	if err := query.Order("requested_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list friend requests: %w", err)
	}
	return rows, total, nil
}

// ListBlocked returns rows where the caller is the blocker.
func (s *FriendshipService) ListBlocked(userID uuid.UUID) ([]models.Friendship, error) {
	var rows []models.Friendship
	if err := s.db.
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusBlocked).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	return rows, nil
}

// Status describes the relationship between the caller and targetID.
func (s *FriendshipService) Status(userID, targetID uuid.UUID) (*dto.FriendshipStatus, error) {
	if userID == targetID {
		return &dto.FriendshipStatus{Status: "self"}, nil
	}

	f, err := s.findPair(userID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relationship: %w", err)
	}
	if f == nil {
		return &dto.FriendshipStatus{Status: "none"}, nil
	}

	status := dto.FriendshipStatus{
		FriendshipID: &f.ID,
		Status:       f.Status,
		IsRequester:  f.RequesterID == userID,
		RequestedAt:  &f.RequestedAt,
		RespondedAt:  f.RespondedAt,
	}
	if f.Status == models.FriendshipStatusPending && f.AddresseeID == userID {
		status.CanAccept = true
		status.CanReject = true
	}
	return &status, nil
}

// ExcludedUserIDs derives the set of users hidden from discovery for userID:
// the user itself plus every accepted, pending, or blocked counterpart.
// Rejected rows do not exclude, so a rejected requester can rediscover the
// other user once the cooldown allows a retry.
func (s *FriendshipService) ExcludedUserIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []models.Friendship
	if err := s.db.
		Where("(requester_id = ? OR addressee_id = ?) AND is_active = ?", userID, userID, true).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}

	seen := map[uuid.UUID]bool{userID: true}
	excluded := []uuid.UUID{userID}
	for i := range rows {
		switch rows[i].Status {
		case models.FriendshipStatusAccepted,
			models.FriendshipStatusPending,
			models.FriendshipStatusBlocked:
			other := rows[i].CounterpartOf(userID)
			if !seen[other] {
				seen[other] = true
				excluded = append(excluded, other)
			}
		}
	}
	return excluded, nil
}
