package dto

import "github.com/google/uuid"

// GroupSyncRequest mirrors a community as a chat group in the messaging
// service. The field names are fixed by that service's API.
type GroupSyncRequest struct {
	ExternalID       uuid.UUID `json:"externalId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"imageUrl"`
	GroupType        string    `json:"groupType"`
	CreatorProfileID uuid.UUID `json:"creatorProfileId"`
	MaxMembers       int       `json:"maxMembers"`
	IsPublic         bool      `json:"isPublic"`
}

type GroupMemberSyncRequest struct {
	ProfileID uuid.UUID `json:"profileId"`
	Status    string    `json:"status"`
}
