package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAuthServiceUnavailable = errors.New("auth service unavailable")

type directoryResponse struct {
	Success bool                `json:"success"`
	Users   []dto.DirectoryUser `json:"users"`
}

// DiscoveryService builds the "available users" listing: the auth service's
// public directory minus the caller's exclusion set, enriched with local
// profiles. The directory is the source of user accounts; profiles are ours.
type DiscoveryService struct {
	db          *gorm.DB
	friendships *FriendshipService
	authBaseURL string
	client      *http.Client
}

func NewDiscoveryService(db *gorm.DB, friendships *FriendshipService, authBaseURL string, timeout time.Duration) *DiscoveryService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DiscoveryService{
		db:          db,
		friendships: friendships,
		authBaseURL: authBaseURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// AvailableUsers returns the page of discoverable users for userID. The
// caller's bearer token is forwarded to the auth service unchanged.
func (s *DiscoveryService) AvailableUsers(userID uuid.UUID, bearer, search string, page, limit int) ([]dto.AvailableUser, int64, error) {
	excluded, err := s.friendships.ExcludedUserIDs(userID)
	if err != nil {
		return nil, 0, err
	}
	excludedSet := make(map[uuid.UUID]bool, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = true
	}

	directory, err := s.fetchDirectory(bearer)
	if err != nil {
		return nil, 0, err
	}

	available := directory[:0]
	for _, u := range directory {
		if !excludedSet[u.ID] {
			available = append(available, u)
		}
	}

	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		filtered := available[:0]
		for _, u := range available {
			if strings.Contains(strings.ToLower(u.Username), q) ||
				strings.Contains(strings.ToLower(u.Email), q) ||
				strings.Contains(strings.ToLower(u.Role), q) {
				filtered = append(filtered, u)
			}
		}
		available = filtered
	}

	enriched, err := s.enrichWithProfiles(available)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(enriched))
	start := (page - 1) * limit
	if start >= len(enriched) {
		return []dto.AvailableUser{}, total, nil
	}
	end := start + limit
	if end > len(enriched) {
		end = len(enriched)
	}
	return enriched[start:end], total, nil
}

func (s *DiscoveryService) fetchDirectory(bearer string) ([]dto.DirectoryUser, error) {
	req, err := http.NewRequest(http.MethodGet, s.authBaseURL+"/api/auth/users/public", nil)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ErrAuthServiceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrAuthServiceUnavailable, resp.StatusCode)
	}

	var parsed directoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthServiceUnavailable, err)
	}
	if !parsed.Success {
		return nil, ErrAuthServiceUnavailable
	}
	return parsed.Users, nil
}

func (s *DiscoveryService) enrichWithProfiles(users []dto.DirectoryUser) ([]dto.AvailableUser, error) {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	profilesByUser := map[uuid.UUID]models.UserProfile{}
	if len(ids) > 0 {
		var profiles []models.UserProfile
		if err := s.db.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
		for _, p := range profiles {
			profilesByUser[p.UserID] = p
		}
	}

	enriched := make([]dto.AvailableUser, len(users))
	for i, u := range users {
		entry := dto.AvailableUser{DirectoryUser: u}
		if p, ok := profilesByUser[u.ID]; ok {
			entry.Profile = &dto.ProfileSummary{
				ID:          p.ID,
				UserID:      p.UserID,
				DisplayName: p.DisplayName,
				Bio:         p.Bio,
				AvatarURL:   p.AvatarURL,
				Location:    p.Location,
				Website:     p.Website,
				BirthDate:   p.BirthDate,
			}
		}
		enriched[i] = entry
	}
	return enriched, nil
}
