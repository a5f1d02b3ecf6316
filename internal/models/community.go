package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CommunityRoleCreator = "creator"
	CommunityRoleAdmin   = "admin"
	CommunityRoleMember  = "member"
)

// Community is a user-created group. MembersCount is denormalized and is
// mutated in the same transaction as the membership row it reflects.
type Community struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Name         string         `gorm:"size:120;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:50;not null;index" json:"category"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	MembersCount int            `gorm:"not null;default:0" json:"members_count"`
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Community) TableName() string {
	return "communities"
}

// CommunityMember links a user to a community. One row per (community, user).
type CommunityMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_community_members_pair" json:"community_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_community_members_pair" json:"user_id"`
	Role        string    `gorm:"size:20;not null;default:'member'" json:"role"`
	JoinedAt    time.Time `gorm:"not null;index" json:"joined_at"`

	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
}

func (m *CommunityMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (CommunityMember) TableName() string {
	return "community_members"
}
