//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"chat-api/internal/config"
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/health"
	"chat-api/internal/infrastructure/inference/ollama"
	"chat-api/internal/infrastructure/logger"
	"chat-api/internal/interfaces/httpserver"
	"chat-api/internal/interfaces/httpserver/handlers"
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		newLogger,
		newHistoryStoreResult,
		wire.FieldsOf(new(*historyStoreResult), "Store", "Configured"),
		newOllamaClient,
		newGenerator,
		newChatService,
		newHealthService,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

type storeConfigured bool

// historyStoreResult carries the store together with its configured flag so a
// single provider can yield both through wire.FieldsOf.
type historyStoreResult struct {
	Store      chat.HistoryStore
	Configured storeConfigured
}

func newHistoryStoreResult(ctx context.Context, cfg *config.Config, log zerolog.Logger) *historyStoreResult {
	store, configured := newHistoryStore(ctx, cfg, log)
	return &historyStoreResult{Store: store, Configured: storeConfigured(configured)}
}

func newOllamaClient(cfg *config.Config, log zerolog.Logger) *ollama.Client {
	return ollama.NewClient(cfg.OllamaHost, ollama.Timeouts{
		Generate: cfg.GenerateTimeout,
		Pull:     cfg.ModelPullTimeout,
	}, log)
}

func newGenerator(client *ollama.Client) chat.Generator {
	return client
}

func newChatService(store chat.HistoryStore, generator chat.Generator, cfg *config.Config, log zerolog.Logger) chat.Service {
	return chat.NewService(store, generator, cfg.ModelName, cfg.HistoryLimit, log)
}

func newHealthService(client *ollama.Client, store chat.HistoryStore, configured storeConfigured, cfg *config.Config, log zerolog.Logger) *health.Service {
	return health.NewService(client, store, bool(configured), cfg.ModelName, cfg.ProbeTimeout, log)
}
