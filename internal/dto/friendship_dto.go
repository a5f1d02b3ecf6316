package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendFriendRequestRequest struct {
	FriendID uuid.UUID `json:"friend_id"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blocked_id"`
}

// FriendSummary reduces an accepted relationship to the counterpart's id.
type FriendSummary struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	FriendID     uuid.UUID `json:"friend_id"`
	Status       string    `json:"status"`
	Since        time.Time `json:"since"`
	RequestedAt  time.Time `json:"requested_at"`
}

// FriendshipStatus describes the relationship between the caller and another
// user, including which actions the caller may take on it.
type FriendshipStatus struct {
	FriendshipID *uuid.UUID `json:"friendship_id,omitempty"`
	Status       string     `json:"status"`
	IsRequester  bool       `json:"is_requester"`
	CanAccept    bool       `json:"can_accept"`
	CanReject    bool       `json:"can_reject"`
	RequestedAt  *time.Time `json:"requested_at,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}
