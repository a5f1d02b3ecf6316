package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusRejected = "rejected"
	FriendshipStatusBlocked  = "blocked"
)

// RejectCooldownDays is how long a rejected requester must wait before resending.
const RejectCooldownDays = 30

// Friendship is the single relationship row between two users. The pair may be
// stored in either order, so lookups always match both directions. For pending
// and blocked rows the requester is the acting side; for accepted rows the
// direction carries no meaning.
type Friendship struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_friendships_pair" json:"requester_id"`
	AddresseeID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_friendships_pair" json:"addressee_id"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestedAt time.Time  `gorm:"not null;index" json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (Friendship) TableName() string {
	return "friendships"
}

// CounterpartOf returns the other party of the relationship.
func (f *Friendship) CounterpartOf(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves reports whether userID is either party of the relationship.
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}
