package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conectados/social-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileEndpoints(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:1")

	userID := uuid.New()

	t.Run("me before upsert", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/me", userID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("upsert then read back", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/profiles/me", userID, map[string]string{
			"username": "marta",
			"bio":      "climber",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/profiles/me", userID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "marta", body["username"])
	})

	t.Run("public lookup by user id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/"+userID.String(), uuid.New(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "marta", decodeBody(t, resp)["username"])
	})

	t.Run("invalid user id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/nope", uuid.New(), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAvailableUsersEndpoint(t *testing.T) {
	t.Run("auth service down returns 503", func(t *testing.T) {
		app, _ := newTestApp(t, "http://127.0.0.1:1")

		resp := doJSON(t, app, http.MethodGet, "/api/users/available", uuid.New(), nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("excludes relationships", func(t *testing.T) {
		caller := uuid.New()
		friend := uuid.New()
		stranger := uuid.New()

		directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"users":[
				{"id":"` + friend.String() + `","username":"friend","email":"f@example.com","role":"user"},
				{"id":"` + stranger.String() + `","username":"stranger","email":"s@example.com","role":"user"}
			]}`))
		}))
		defer directory.Close()

		app, db := newTestApp(t, directory.URL)
		testutil.SeedProfile(t, db, caller, "caller")
		testutil.SeedProfile(t, db, friend, "friend")

		resp := doJSON(t, app, http.MethodPost, "/api/friendships", caller,
			map[string]string{"friend_id": friend.String()})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet, "/api/users/available", caller, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		users := body["users"].([]interface{})
		require.Len(t, users, 1)
		first := users[0].(map[string]interface{})
		assert.Equal(t, stranger.String(), first["id"])
	})
}
