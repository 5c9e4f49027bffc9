package main

import (
	"log"

	"github.com/clubtryara/pos/internal/application/service"
	"github.com/clubtryara/pos/internal/config"
	"github.com/clubtryara/pos/internal/infrastructure/database"
	"github.com/clubtryara/pos/internal/infrastructure/repository"
	"github.com/clubtryara/pos/internal/presentation/http/handler"
	"github.com/clubtryara/pos/internal/presentation/http/routes"
	"github.com/clubtryara/pos/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tableRepo := repository.NewTableRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	tableService := service.NewTableService(tableRepo)
	saleService := service.NewSaleService(saleRepo)
	stockService := service.NewStockService(productRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		Table: handler.NewTableHandler(tableService),
		Sale:  handler.NewSaleHandler(saleService),
		Stock: handler.NewStockHandler(stockService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
