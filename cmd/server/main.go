// @title Empreinte Backend API
// @version 1.0
// @description Carbon footprint scoring and ranking API - survey submissions are scored per category and aggregated into snapshots, comparisons, evolution charts and leaderboards
// @termsOfService http://swagger.io/terms/

// @contact.name Empreinte Support
// @contact.email support@empreinte.tools

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the Empreinte Backend API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/empreinte-tools/empreinte_backend/internal/auth"
	"github.com/empreinte-tools/empreinte_backend/internal/config"
	"github.com/empreinte-tools/empreinte_backend/internal/database"
	"github.com/empreinte-tools/empreinte_backend/internal/handlers"
	"github.com/empreinte-tools/empreinte_backend/internal/middleware"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
	"github.com/empreinte-tools/empreinte_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/empreinte-tools/empreinte_backend/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service early (before defer) to avoid exitAfterDefer issue
	jwtCfg := auth.JWTConfig{
		PrivateKeyPath:     cfg.JWTPrivateKeyPath,
		PublicKeyPath:      cfg.JWTPublicKeyPath,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		Issuer:             "empreinte-backend",
	}

	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	log.Println("Creating database indexes...")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Seed the question catalog when enabled (idempotent)
	if cfg.SeedCatalog {
		log.Println("Seeding question catalog...")
		if seedErr := dbClient.SeedData(ctx); seedErr != nil {
			log.Printf("Warning: Failed to seed catalog: %v", seedErr)
		}
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(dbClient)
	questionnaireRepo := repository.NewQuestionnaireRepository(dbClient)
	userRepo := repository.NewUserRepository(dbClient)
	groupRepo := repository.NewGroupRepository(dbClient)

	// Initialize services
	scoreService := services.NewScoreService(catalogRepo, questionnaireRepo)
	periodSelector := services.NewPeriodSelector(questionnaireRepo)
	reportService := services.NewReportService(catalogRepo, questionnaireRepo, scoreService, periodSelector)
	rankingService := services.NewRankingService(userRepo, groupRepo, scoreService, periodSelector)
	submissionService := services.NewSubmissionService(catalogRepo, questionnaireRepo, periodSelector)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient, Version)
	footprintHandler := handlers.NewFootprintHandler(reportService)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	questionnaireHandler := handlers.NewQuestionnaireHandler(submissionService)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Ranking fans out score computations, so it gets its own rate limiter
	rankingLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	// Register routes
	footprintHandler.RegisterRoutes(apiV1, authMiddleware)
	rankingHandler.RegisterRoutes(apiV1, authMiddleware, rankingLimiter.RateLimit())
	questionnaireHandler.RegisterRoutes(apiV1, authMiddleware)
	catalogHandler.RegisterRoutes(apiV1, authMiddleware)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Empreinte Backend API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s | Branch: %s", BuildTime, GitCommit, GitBranch)
		log.Printf("Environment: %s", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
