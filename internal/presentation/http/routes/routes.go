package routes

import (
	"time"

	"github.com/clubtryara/pos/internal/config"
	domainRepo "github.com/clubtryara/pos/internal/domain/repository"
	"github.com/clubtryara/pos/internal/presentation/http/handler"
	"github.com/clubtryara/pos/internal/presentation/http/middleware"
	"github.com/clubtryara/pos/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth  *handler.AuthHandler
	Table *handler.TableHandler
	Sale  *handler.SaleHandler
	Stock *handler.StockHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-cashier rate limiter
		rateLimiter := middleware.NewCashierRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Table listing for the reservation selector
		protected.GET("/tables", h.Table.List)

		// Checkout endpoints require an idempotency key
		idem := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})
		protected.POST("/sales", idem, h.Sale.Create)
		protected.POST("/stock/adjust", idem, h.Stock.Adjust)

		// Sale history
		protected.GET("/sales", h.Sale.List)
		protected.GET("/sales/:id", h.Sale.Get)
	}

	return router
}
