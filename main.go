package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/config"
	"github.com/agentbase-hq/agentbase-engine/pkg/database"
	"github.com/agentbase-hq/agentbase-engine/pkg/handlers"
	"github.com/agentbase-hq/agentbase-engine/pkg/logging"
	"github.com/agentbase-hq/agentbase-engine/pkg/middleware"
	"github.com/agentbase-hq/agentbase-engine/pkg/mls"
	"github.com/agentbase-hq/agentbase-engine/pkg/repositories"
	"github.com/agentbase-hq/agentbase-engine/pkg/scheduler"
	"github.com/agentbase-hq/agentbase-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// .env is optional, used for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("mls_provider", cfg.MLS.Provider))

	ctx := context.Background()

	// Apply pending migrations before opening the pool
	if err := database.Migrate(&cfg.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	provider, mode := mls.NewProvider(&cfg.MLS, logger)
	logger.Info("MLS provider ready",
		zap.String("provider", provider.Name()),
		zap.String("mode", string(mode)))

	// Repositories
	contactRepo := repositories.NewContactRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)

	// Services
	contactImportService := services.NewContactImportService(contactRepo, cfg.Import.BatchSize, logger)
	contactService := services.NewContactService(contactRepo, logger)
	eventService := services.NewUpcomingEventService(contactRepo, logger)
	listingImportService := services.NewListingImportService(propertyRepo, provider, logger)
	searchTTL := time.Duration(cfg.Redis.SearchTTLSeconds) * time.Second
	listingSearchService := services.NewListingSearchService(provider, redisClient, searchTTL, logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	contactsHandler := handlers.NewContactsHandler(contactImportService, eventService, contactService, cfg.Import.MaxUploadBytes, logger)
	contactsHandler.RegisterRoutes(mux)

	propertiesHandler := handlers.NewPropertiesHandler(listingSearchService, listingImportService, propertyRepo, logger)
	propertiesHandler.RegisterRoutes(mux)

	// Nightly listing refresh
	refresh := scheduler.New(listingImportService, cfg.MLS.RefreshSchedule, logger)
	if err := refresh.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer refresh.Stop()

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting agentbase-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
