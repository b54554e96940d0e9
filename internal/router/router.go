package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mojirecepti/backend/config"
	"github.com/mojirecepti/backend/internal/api"
	"github.com/mojirecepti/backend/internal/middleware"
	"github.com/mojirecepti/backend/internal/service"
)

// Deps carries the shared infrastructure the handlers are built on. Redis
// and S3 are optional; the corresponding features degrade when absent.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	S3Config *config.S3Config
	Config   *config.Config
}

// SetupRouter builds the Gin engine with all routes registered.
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 24 * time.Hour
	router.Use(cors.New(corsConfig))

	authService := service.NewAuthService(deps.DB, deps.Config.JWTSecret)
	recipeService := service.NewRecipeService(deps.DB, deps.Config.ListingScanCap)
	writeService := service.NewRecipeWriteService(deps.DB)
	feedbackService := service.NewFeedbackService(deps.DB)

	var imageService *service.ImageService
	if deps.S3Config != nil {
		imageService = service.NewImageService(deps.S3Config)
	}

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, writeService, authService)
	feedbackHandler := api.NewFeedbackHandler(feedbackService, recipeService)
	adminHandler := api.NewAdminHandler(feedbackService)
	imageHandler := api.NewImageHandler(imageService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterPublicRoutes(v1)
	feedbackHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	if deps.Redis != nil {
		limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     30,
			KeyPrefix: "ratelimit:write",
		})
		protected.Use(limiter.Middleware())
	}
	protected.GET("/auth/profile", authHandler.Profile)
	recipeHandler.RegisterProtectedRoutes(protected)
	feedbackHandler.RegisterProtectedRoutes(protected)
	imageHandler.RegisterRoutes(protected)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	adminHandler.RegisterRoutes(admin)

	return router
}
