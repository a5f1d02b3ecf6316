package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/google/uuid"
)

const syncGroupMaxMembers = 10000

// MessagingSyncService mirrors community create/join/leave events to the
// messaging service's group API. Every call is bounded by the client timeout
// and every failure is logged and discarded: the local rows already committed
// and the remote mirror is treated as an eventually-consistent replica.
type MessagingSyncService struct {
	baseURL string
	client  *http.Client
}

func NewMessagingSyncService(baseURL string, timeout time.Duration) *MessagingSyncService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MessagingSyncService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SyncCommunity mirrors a new community as a chat group.
func (s *MessagingSyncService) SyncCommunity(community *models.Community) {
	payload := dto.GroupSyncRequest{
		ExternalID:       community.ID,
		Name:             community.Name,
		Description:      community.Description,
		ImageURL:         community.ImageURL,
		GroupType:        "community",
		CreatorProfileID: community.CreatorID,
		MaxMembers:       syncGroupMaxMembers,
		IsPublic:         true,
	}
	if err := s.send(http.MethodPost, s.baseURL+"/api/v1/groups/sync", payload); err != nil {
		slog.Error("community sync failed", "community_id", community.ID, "error", err)
		return
	}
	slog.Info("community synced to messaging service", "community_id", community.ID)
}

// SyncMemberJoin mirrors a membership into the community's chat group.
func (s *MessagingSyncService) SyncMemberJoin(communityID, profileID uuid.UUID) {
	url := fmt.Sprintf("%s/api/v1/group-members/%s/sync-add", s.baseURL, communityID)
	payload := dto.GroupMemberSyncRequest{ProfileID: profileID, Status: "active"}
	if err := s.send(http.MethodPost, url, payload); err != nil {
		slog.Error("member join sync failed",
			"community_id", communityID, "profile_id", profileID, "error", err)
		return
	}
	slog.Info("member join synced", "community_id", communityID, "profile_id", profileID)
}

// SyncMemberLeave mirrors a membership removal.
func (s *MessagingSyncService) SyncMemberLeave(communityID, profileID uuid.UUID) {
	url := fmt.Sprintf("%s/api/v1/group-members/%s/sync-remove/%s", s.baseURL, communityID, profileID)
	if err := s.send(http.MethodDelete, url, nil); err != nil {
		slog.Error("member leave sync failed",
			"community_id", communityID, "profile_id", profileID, "error", err)
		return
	}
	slog.Info("member leave synced", "community_id", communityID, "profile_id", profileID)
}

func (s *MessagingSyncService) send(method, url string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("messaging service returned status %d", resp.StatusCode)
	}
	return nil
}
