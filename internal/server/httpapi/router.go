package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive/internal/server/auth"
	"github.com/streamhive/streamhive/internal/server/config"
)

// NewRouter wires the account routes under /api/v1. Credentialed CORS is
// restricted to the single configured origin; a wildcard would break
// cookie-carrying requests.
func NewRouter(h *Handler, tokens *auth.Manager, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	v1.GET("/healthcheck", h.Healthcheck)

	users := v1.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.POST("/refresh", h.Refresh)

	authed := users.Group("")
	authed.Use(RequireAuth(tokens))
	authed.POST("/logout", h.Logout)
	authed.GET("/current", h.Current)
	authed.POST("/change-password", h.ChangePassword)
	authed.PUT("/update-account", h.UpdateAccount)
	authed.PUT("/update-avatar", h.UpdateAvatar)
	authed.PUT("/update-cover-image", h.UpdateCoverImage)

	return r
}
