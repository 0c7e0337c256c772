package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/collab"
	"github.com/Jaganravi131/DesignSync/internal/config"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every browser with a stable token so log lines
// can be correlated across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, st store.Store, ctl *collab.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	cookieStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("DesignSyncSession", cookieStore))
	r.Use(ClientTokenMiddleware())

	log.Info().Str("module", "adapters.http").Msg("router setup")

	h := newHandlers(cfg, st)

	api := r.Group("/api")
	api.GET("/health", h.health)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.login)
	authGroup.GET("/profile", h.requireAuth, h.profile)
	authGroup.PUT("/preferences", h.requireAuth, h.updatePreferences)

	collabGroup := api.Group("/collaboration")
	collabGroup.GET("/activity/:designId", h.requireAuth, h.activity)
	collabGroup.POST("/invite", h.requireAuth, h.invite)
	collabGroup.DELETE("/collaborator/:designId/:userId", h.requireAuth, h.removeCollaborator)

	api.GET("/ws/collab", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws collab endpoint hit")
		ctl.HandleCollab(ctx, c)
	})

	return r
}
