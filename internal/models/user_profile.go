package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile is the locally-owned profile for a user whose account lives in
// the external auth service. UserID is the auth service's user id.
type UserProfile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Username    string     `gorm:"size:50;index" json:"username"`
	DisplayName string     `gorm:"size:100" json:"display_name"`
	Bio         string     `gorm:"type:text" json:"bio"`
	AvatarURL   string     `gorm:"size:500" json:"avatar_url"`
	Location    string     `gorm:"size:100" json:"location"`
	Website     string     `gorm:"size:255" json:"website"`
	BirthDate   *time.Time `json:"birth_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
