package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/auth"
	"github.com/Jaganravi131/DesignSync/internal/config"
	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

const activityLimit = 50

type handlers struct {
	cfg *config.Config
	st  store.Store
}

func newHandlers(cfg *config.Config, st store.Store) *handlers {
	return &handlers{cfg: cfg, st: st}
}

func (h *handlers) health(c *gin.Context) {
	dbStatus := "disconnected"
	message := "Running in offline mode - database features limited"
	if h.cfg.MongoURI != "" && h.st.Available() {
		dbStatus = "connected"
		message = "All systems operational"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
		"message":   message,
	})
}

type loginRequest struct {
	Email  string `json:"email" binding:"required"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// login finds or creates the user and issues the bearer token the
// collaboration layer later verifies on join.
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.st.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = domain.NewUser("", req.Email, req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Avatar != "" {
			user.Avatar = req.Avatar
		}
		if err := h.st.SaveUser(ctx, user); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
			return
		}
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("login lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	default:
		// Refresh mutable profile fields on every login.
		if req.Name != "" {
			user.Name = req.Name
		}
		if req.Avatar != "" {
			user.Avatar = req.Avatar
		}
		if err := h.st.SaveUser(ctx, user); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("refresh user on login")
		}
	}

	token, err := auth.GenerateToken(user.ID, user.Email, []byte(h.cfg.Secret), h.cfg.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// requireAuth resolves the bearer token into the request's user identity.
func (h *handlers) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	claims, err := auth.VerifyToken(tokenString, []byte(h.cfg.Secret))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}
	c.Set("user_id", claims.UserID)
	c.Next()
}

func requestUser(c *gin.Context) domain.UserID {
	return domain.UserID(c.GetString("user_id"))
}

func (h *handlers) profile(c *gin.Context) {
	user, err := h.st.FindUser(c.Request.Context(), requestUser(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) updatePreferences(c *gin.Context) {
	var req struct {
		Preferences domain.Preferences `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences"})
		return
	}
	ctx := c.Request.Context()
	user, err := h.st.FindUser(ctx, requestUser(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	user.Preferences = req.Preferences
	if err := h.st.SaveUser(ctx, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type activityEntry struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	User        any       `json:"user"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Data        gin.H     `json:"data"`
}

// activity merges a design's versions and comments into one feed, newest
// first, capped at activityLimit entries.
func (h *handlers) activity(c *gin.Context) {
	ctx := c.Request.Context()
	design, err := h.st.FindDesign(ctx, domain.DesignID(c.Param("designId")))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get activity"})
		return
	}
	if !design.CanView(requestUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	feed := make([]activityEntry, 0, len(design.Versions)+len(design.Comments))
	for _, v := range design.Versions {
		feed = append(feed, activityEntry{
			Type:        "version",
			ID:          strconv.Itoa(v.Version),
			User:        v.CreatedBy,
			Description: v.Description,
			Timestamp:   v.CreatedAt,
			Data:        gin.H{"version": v.Version, "thumbnail": v.Thumbnail},
		})
	}
	for _, cm := range design.Comments {
		feed = append(feed, activityEntry{
			Type:        "comment",
			ID:          cm.ID,
			User:        cm.UserID,
			Description: cm.Text,
			Timestamp:   cm.CreatedAt,
			Data:        gin.H{"position": cm.Position, "resolved": cm.Resolved},
		})
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	c.JSON(http.StatusOK, feed)
}

type inviteRequest struct {
	DesignID   string            `json:"designId" binding:"required"`
	Email      string            `json:"email" binding:"required"`
	Permission domain.Permission `json:"permission"`
}

// invite adds or updates a collaborator; the invitee is created as a
// placeholder user when unknown.
func (h *handlers) invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "designId and email are required"})
		return
	}
	if req.Permission == "" {
		req.Permission = domain.PermissionView
	}

	ctx := c.Request.Context()
	design, err := h.st.FindDesign(ctx, domain.DesignID(req.DesignID))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitation"})
		return
	}
	if !design.CanManage(requestUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	invitee, err := h.st.FindByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		name, _, _ := strings.Cut(req.Email, "@")
		invitee, err = domain.NewUser("", req.Email, name)
		if err == nil {
			err = h.st.SaveUser(ctx, invitee)
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitation"})
		return
	}

	err = h.st.SetCollaborator(ctx, design.ID, domain.Collaborator{
		User:       invitee.ID,
		Permission: req.Permission,
		InvitedAt:  time.Now(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitation"})
		return
	}

	log.Info().Str("module", "adapters.http").Str("email", req.Email).Str("design", req.DesignID).Msg("invitation sent")
	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent successfully"})
}

func (h *handlers) removeCollaborator(c *gin.Context) {
	ctx := c.Request.Context()
	designID := domain.DesignID(c.Param("designId"))

	design, err := h.st.FindDesign(ctx, designID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collaborator"})
		return
	}
	if !design.CanManage(requestUser(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	if err := h.st.RemoveCollaborator(ctx, designID, domain.UserID(c.Param("userId"))); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collaborator"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed successfully"})
}
