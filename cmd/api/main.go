package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/adapter/handler"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/keyring"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/webhook"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/distribution"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
	pkgai "github.com/johnquangdev/meeting-minutes/pkg/ai"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
	pkgvalidator "github.com/johnquangdev/meeting-minutes/pkg/validator"
)

// @title           Meeting Minutes API
// @version         1.0
// @description     Turns meeting transcripts into editable, distributable minutes
// @BasePath        /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID, handler.CredentialHeader},
	}))

	logger.Info("🔧 Initializing dependencies...")
	m := metrics.New()

	// Credential store
	kv, closeKV, err := newCredentialBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize credential backend", zap.Error(err))
	}
	defer closeKV()
	credentialStore := credential.NewStore(kv, cfg.Credential.Key, logger)

	// Optional persistence of committed minutes
	var minutesRepo repositories.MinutesRepository
	if cfg.Database.Enabled {
		logger.Info("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.CloseDB(db)

		// Production deployments manage schema with sql-migrate.
		if cfg.Database.AutoMigrate {
			if cfg.IsProduction() {
				logger.Fatal("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
			}
			if err := database.AutoMigrate(db, logger); err != nil {
				logger.Fatal("Failed to run AutoMigrate", zap.Error(err))
			}
		}
		minutesRepo = repository.NewMinutesRepository(db)
	} else {
		logger.Info("⚠️  Database disabled, committed minutes are kept in memory only")
	}

	// Optional archive of distributed minutes
	var archiver distribution.Archiver
	if cfg.Storage.Enabled {
		logger.Info("🗄️  Connecting to object storage...", zap.String("endpoint", cfg.Storage.Endpoint))
		client, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		archiver = client
	}

	// Generation pipeline
	logger.Info("🤖 Initializing generation pipeline...", zap.String("model", cfg.LLM.Model))
	chatClient := pkgai.NewChatClient(&cfg.LLM)
	generator := minutesUsecase.NewGenerator(chatClient, credentialStore, logger)
	var deliverer distribution.Deliverer = distribution.NewLogDeliverer(logger)
	if cfg.Delivery.WebhookURL != "" {
		logger.Info("📧 Delivering minutes via webhook", zap.String("url", cfg.Delivery.WebhookURL))
		deliverer = webhook.NewDeliverer(&cfg.Delivery, logger)
	}
	distributor := distribution.NewService(deliverer, archiver, m, logger)

	sessions := minutesUsecase.NewManager(minutesUsecase.ManagerConfig{
		Service:     generator,
		Distributor: distributor,
		Repository:  minutesRepo,
		Timeout:     cfg.LLM.Timeout,
		Metrics:     m,
		Logger:      logger,
		Listener: func(sessionID string, status entities.ProcessingStatus) {
			logger.Debug("📊 Stage changed",
				zap.String("session_id", sessionID),
				zap.String("stage", string(status.Stage)),
				zap.Int("progress", status.Progress),
			)
		},
	})

	loader := transcript.NewLoader(afero.NewOsFs(), cfg.Server.MaxUploadBytes)

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewMinutesHandler(sessions, loader, minutesRepo, logger),
		handler.NewCredentialHandler(credentialStore, logger),
		m,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("credential_backend", cfg.Credential.Backend),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newCredentialBackend selects where the API credential lives
func newCredentialBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.KeyValueStore, func(), error) {
	switch cfg.Credential.Backend {
	case config.CredentialBackendRedis:
		logger.Info("📦 Connecting to Redis...")
		client, err := cache.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisStore(client, "minutes:"), func() { client.Close() }, nil
	case config.CredentialBackendKeyring:
		logger.Info("🔐 Using OS keyring for credentials", zap.String("service", keyring.DefaultService))
		return keyring.NewStore(keyring.DefaultService), func() {}, nil
	default:
		logger.Info("🔑 Using in-memory credential store")
		return cache.NewMemoryStore(), func() {}, nil
	}
}
