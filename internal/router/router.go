package router

import (
	"net/http"
	"time"

	"github.com/aprendia/estadistica-backend/internal/config"
	"github.com/aprendia/estadistica-backend/internal/handler"
	"github.com/aprendia/estadistica-backend/internal/middleware"
	"github.com/aprendia/estadistica-backend/internal/response"
	"github.com/aprendia/estadistica-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Learning *handler.LearningHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireSession(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireSession(authService), handlers.Auth.Me)
	}

	// ─── 2. Learning Group (Session-Gated) ─────────────────────────────
	learn := router.Group("/api/v1/learn")
	learn.Use(middleware.RequireSession(authService))
	{
		learn.GET("/topics", handlers.Learning.Topics)
		learn.POST("/select", handlers.Learning.Select)
		learn.GET("/visual", handlers.Learning.Visual)
		learn.POST("/practico/generar", handlers.Learning.Generate)
		learn.POST("/practico/evaluar", handlers.Learning.Evaluate)
	}

	return router
}
