package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/config"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers"
	"github.com/ignatzorin/gigmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// SetupRouter собирает HTTP маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	gigHandler *handlers.GigHandler,
	bidHandler *handlers.BidHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	apiRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	auth := middleware.AuthMiddleware(tokenManager)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(auth)
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.GET("/me", authHandler.Me)
	}

	// Публичные маршруты
	api.GET("/gigs", apiRateLimit, gigHandler.List)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.Get)

	// Защищённые маршруты
	gigs := api.Group("/gigs")
	gigs.Use(auth)
	{
		gigs.POST("", gigHandler.Create)
		gigs.GET("/my-gigs", gigHandler.ListMy)
		gigs.PUT("/:id", middleware.UUIDValidator("id"), gigHandler.Update)
		gigs.DELETE("/:id", middleware.UUIDValidator("id"), gigHandler.Delete)
	}

	bids := api.Group("/bids")
	bids.Use(auth)
	{
		bids.POST("", bidHandler.Submit)
		bids.GET("/my-bids", bidHandler.ListMy)
		bids.GET("/:gigId", middleware.UUIDValidator("gigId"), bidHandler.ListForGig)
		bids.PATCH("/:bidId", middleware.UUIDValidator("bidId"), bidHandler.Update)
		bids.DELETE("/:bidId", middleware.UUIDValidator("bidId"), bidHandler.Withdraw)

		// Найм ограничивается строже остального API: повторные клики и ретраи
		// не должны превращаться в шторм условных записей.
		hireRateLimit := middleware.RateLimitMiddleware(cfg.HireRateLimit, cfg.RateLimitPeriod)
		bids.PATCH("/:bidId/hire", middleware.UUIDValidator("bidId"), hireRateLimit, bidHandler.Hire)
	}

	return r
}
