package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaganravi131/DesignSync/internal/collab"
	"github.com/Jaganravi131/DesignSync/internal/config"
	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/presence"
	"github.com/Jaganravi131/DesignSync/internal/store/memory"
)

func testRouter(t *testing.T, st *memory.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:       "release",
		Port:       3001,
		ReadLimit:  1024,
		PingPeriod: time.Second,
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		Store:      config.StoreConfig{Timeout: time.Second},
		Collab:     config.CollabConfig{SingleSession: true, JoinLimit: 10, JoinInterval: time.Minute},
	}
	registry := presence.NewRegistry(presence.SingleSession)
	ctl := collab.NewController(cfg, registry, collab.NewBridge(st, st, time.Second))
	return SetupRouter(context.Background(), cfg, st, ctl)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, name string) (string, domain.UserID) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "name": name})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func TestHealth_OfflineMode(t *testing.T) {
	r := testRouter(t, memory.New())
	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
	assert.Equal(t, "disconnected", resp["database"])
}

func TestLogin_AndProfile(t *testing.T) {
	r := testRouter(t, memory.New())
	token, _ := login(t, r, "alice@example.com", "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEmpty(t, u.Avatar)

	// Logging in again reuses the account.
	_, id2 := login(t, r, "alice@example.com", "Alice A.")
	assert.Equal(t, u.ID, id2)
}

func TestProfile_RequiresToken(t *testing.T) {
	r := testRouter(t, memory.New())
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/api/auth/profile", "", nil).Code)

	w := doJSON(t, r, http.MethodGet, "/api/auth/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdatePreferences(t *testing.T) {
	r := testRouter(t, memory.New())
	token, _ := login(t, r, "alice@example.com", "Alice")

	w := doJSON(t, r, http.MethodPut, "/api/auth/preferences", token, gin.H{
		"preferences": gin.H{"theme": "dark", "notifications": false},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "dark", u.Preferences.Theme)
	assert.False(t, u.Preferences.Notifications)
}

func TestActivity_AccessAndOrder(t *testing.T) {
	st := memory.New()
	r := testRouter(t, st)
	ownerToken, ownerID := login(t, r, "owner@example.com", "Owner")
	strangerToken, _ := login(t, r, "stranger@example.com", "Stranger")

	now := time.Now()
	st.AddDesign(&domain.Design{
		ID:    "d1",
		Owner: ownerID,
		Comments: []domain.Comment{
			{ID: "c1", UserID: ownerID, Text: "old", CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "c2", UserID: ownerID, Text: "new", CreatedAt: now},
		},
		Versions: []domain.Version{
			{Version: 1, Description: "first draft", CreatedBy: ownerID, CreatedAt: now.Add(-time.Hour)},
		},
	})

	assert.Equal(t, http.StatusForbidden, doJSON(t, r, http.MethodGet, "/api/collaboration/activity/d1", strangerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/collaboration/activity/missing", ownerToken, nil).Code)

	w := doJSON(t, r, http.MethodGet, "/api/collaboration/activity/d1", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 3)
	assert.Equal(t, "new", feed[0]["description"])
	assert.Equal(t, "version", feed[1]["type"])
	assert.Equal(t, "old", feed[2]["description"])
}

func TestInvite_PermissionsAndPlaceholderUser(t *testing.T) {
	st := memory.New()
	r := testRouter(t, st)
	ownerToken, ownerID := login(t, r, "owner@example.com", "Owner")
	viewerToken, viewerID := login(t, r, "viewer@example.com", "Viewer")

	st.AddDesign(&domain.Design{
		ID:    "d1",
		Owner: ownerID,
		Collaborators: []domain.Collaborator{
			{User: viewerID, Permission: domain.PermissionView},
		},
	})

	// A view-only collaborator may not invite.
	w := doJSON(t, r, http.MethodPost, "/api/collaboration/invite", viewerToken, gin.H{
		"designId": "d1", "email": "new@example.com",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/collaboration/invite", ownerToken, gin.H{
		"designId": "d1", "email": "new@example.com", "permission": "edit",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The invitee was created as a placeholder user.
	invitee, err := st.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", invitee.Name)

	d, err := st.FindDesign(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, d.Collaborators, 2)
}

func TestRemoveCollaborator(t *testing.T) {
	st := memory.New()
	r := testRouter(t, st)
	ownerToken, ownerID := login(t, r, "owner@example.com", "Owner")
	_, viewerID := login(t, r, "viewer@example.com", "Viewer")

	st.AddDesign(&domain.Design{
		ID:    "d1",
		Owner: ownerID,
		Collaborators: []domain.Collaborator{
			{User: viewerID, Permission: domain.PermissionView},
		},
	})

	w := doJSON(t, r, http.MethodDelete, "/api/collaboration/collaborator/d1/"+string(viewerID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	d, err := st.FindDesign(context.Background(), "d1")
	require.NoError(t, err)
	assert.Empty(t, d.Collaborators)
}
