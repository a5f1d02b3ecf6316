package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommunity(t *testing.T) {
	communityID := uuid.New()
	creatorID := uuid.New()

	var got dto.GroupSyncRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/groups/sync", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewMessagingSyncService(server.URL, time.Second)
	svc.SyncCommunity(&models.Community{
		ID:        communityID,
		CreatorID: creatorID,
		Name:      "Chess Club",
		ImageURL:  "https://cdn.example.com/chess.png",
	})

	assert.Equal(t, communityID, got.ExternalID)
	assert.Equal(t, creatorID, got.CreatorProfileID)
	assert.Equal(t, "Chess Club", got.Name)
	assert.Equal(t, "community", got.GroupType)
	assert.True(t, got.IsPublic)
	assert.Equal(t, syncGroupMaxMembers, got.MaxMembers)
}

func TestSyncMemberJoin(t *testing.T) {
	communityID := uuid.New()
	profileID := uuid.New()

	var got dto.GroupMemberSyncRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := NewMessagingSyncService(server.URL, time.Second)
	svc.SyncMemberJoin(communityID, profileID)

	assert.Equal(t, "/api/v1/group-members/"+communityID.String()+"/sync-add", path)
	assert.Equal(t, profileID, got.ProfileID)
	assert.Equal(t, "active", got.Status)
}

func TestSyncMemberLeave(t *testing.T) {
	communityID := uuid.New()
	profileID := uuid.New()

	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewMessagingSyncService(server.URL, time.Second)
	svc.SyncMemberLeave(communityID, profileID)

	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t,
		"/api/v1/group-members/"+communityID.String()+"/sync-remove/"+profileID.String(), path)
}

// Mirror failures must never propagate: the calls below only log.
func TestSyncFailuresAreSwallowed(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := NewMessagingSyncService(server.URL, time.Second)
		svc.SyncCommunity(&models.Community{ID: uuid.New()})
		svc.SyncMemberJoin(uuid.New(), uuid.New())
		svc.SyncMemberLeave(uuid.New(), uuid.New())
	})

	t.Run("unreachable host", func(t *testing.T) {
		svc := NewMessagingSyncService("http://127.0.0.1:1", 200*time.Millisecond)
		svc.SyncCommunity(&models.Community{ID: uuid.New()})
		svc.SyncMemberJoin(uuid.New(), uuid.New())
		svc.SyncMemberLeave(uuid.New(), uuid.New())
	})
}
