package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"prospectfinder/internal/config"
	"prospectfinder/internal/handler"
	"prospectfinder/internal/repository"
	"prospectfinder/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Fleet Prospect Finder")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(&cfg.Logging)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	if !cfg.Places.Enabled {
		log.Println("⚠️  PLACES_API_KEY is not set - provider searches will fail")
		log.Println("   Set PLACES_API_KEY environment variable to enable searches")
	}

	// Category taxonomy (editable at runtime, re-checked per request)
	catalog, err := repository.NewCatalogStore(cfg.Search.CategoryFile)
	if err != nil {
		log.Fatalf("Failed to load category catalog: %v", err)
	}
	log.Printf("✅ Loaded %d category packs from %s", len(catalog.Packs()), cfg.Search.CategoryFile)

	// Optional search log database
	var searchLog *repository.SearchLogRepository
	if cfg.PostgreSQL.Enabled {
		searchLog, err = repository.NewSearchLogRepository(
			cfg.PostgreSQL.DSN,
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer searchLog.Close()
		log.Println("✅ Connected to PostgreSQL search log")
	} else {
		log.Println("⚠️  DATABASE_URL not set - search logging is disabled")
	}

	// Initialize services
	placesClient := service.NewPlacesClient(&cfg.Places)
	cache := service.NewSearchCache(cfg.Cache.TTL)
	searchService := service.NewSearchService(
		catalog,
		placesClient,
		cache,
		searchLog,
		cfg.Search.PageSize,
		cfg.Search.DefaultMaxResults,
		cfg.Search.DetailsBatchCap,
	)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(
		searchService,
		cfg.Search.MinRadiusMeters,
		cfg.Search.MaxRadiusMeters,
		cfg.Search.MaxResultsCap,
	)
	detailsHandler := handler.NewDetailsHandler(searchService)
	feedbackHandler := handler.NewFeedbackHandler(searchService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "fleet-prospect-finder",
			"version": Version,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search/places", searchHandler.Search)
		apiV1.GET("/search/places/next", searchHandler.NextPage)
		apiV1.POST("/search/places/csv", searchHandler.ExportCSV)
		apiV1.GET("/categories", searchHandler.Categories)
		apiV1.POST("/places/details", detailsHandler.Batch)
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	// Serve the static frontend
	setupStaticFiles(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

func setupLogging(cfg *config.LoggingConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Printf("Warning: invalid LOG_LEVEL %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
