package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertProfileRequest struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Bio         string     `json:"bio"`
	AvatarURL   string     `json:"avatar_url"`
	Location    string     `json:"location"`
	Website     string     `json:"website"`
	BirthDate   *time.Time `json:"birth_date"`
}

// DirectoryUser is a user record from the auth service's public directory.
type DirectoryUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// AvailableUser is a directory user enriched with the local profile, if any.
type AvailableUser struct {
	DirectoryUser
	Profile *ProfileSummary `json:"profile"`
}

type ProfileSummary struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Bio         string     `json:"bio"`
	AvatarURL   string     `json:"avatar_url"`
	Location    string     `json:"location"`
	Website     string     `json:"website"`
	BirthDate   *time.Time `json:"birth_date"`
}
