package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"chat-api/internal/config"
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/health"
	"chat-api/internal/infrastructure/database"
	"chat-api/internal/infrastructure/database/repository/chatrepo"
	"chat-api/internal/infrastructure/inference/ollama"
	"chat-api/internal/infrastructure/logger"
	"chat-api/internal/infrastructure/observability"
	"chat-api/internal/interfaces/httpserver"
	"chat-api/internal/interfaces/httpserver/handlers"
)

// Application bundles the long running pieces of the service.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, storeConfigured := newHistoryStore(ctx, cfg, log)

	ollamaClient := ollama.NewClient(cfg.OllamaHost, ollama.Timeouts{
		Generate: cfg.GenerateTimeout,
		Pull:     cfg.ModelPullTimeout,
	}, log)

	chatService := chat.NewService(store, ollamaClient, cfg.ModelName, cfg.HistoryLimit, log)
	healthService := health.NewService(ollamaClient, store, storeConfigured, cfg.ModelName, cfg.ProbeTimeout, log)

	// Pre-warm the model in the background so the first chat request does
	// not pay the download cost. Failure is logged, never fatal, and does
	// not block the listener.
	go func() {
		log.Info().Str("model", cfg.ModelName).Msg("pulling model")
		if err := ollamaClient.Pull(ctx, cfg.ModelName); err != nil {
			log.Warn().Err(err).Str("model", cfg.ModelName).Msg("model pull failed, continuing without pre-warm")
			return
		}
		log.Info().Str("model", cfg.ModelName).Msg("model ready")
	}()

	handlerProvider := handlers.NewProvider(chatService, healthService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// newHistoryStore connects to Postgres and migrates the schema. Persistence
// is best effort end to end: any failure here degrades the service to the
// noop store instead of aborting startup.
func newHistoryStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (chat.HistoryStore, bool) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, running without persistence")
		return chatrepo.NewNoopStore(), false
	}

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, running without persistence")
		return chatrepo.NewNoopStore(), false
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Warn().Err(err).Msg("database migration failed, running without persistence")
		return chatrepo.NewNoopStore(), false
	}

	log.Info().Msg("database connection pool established")
	return chatrepo.NewPostgresStore(db, log), true
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
