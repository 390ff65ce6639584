package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2/endpoints"

	"aibox/internal/config"
	"aibox/internal/indexer"
	"aibox/internal/llm"
	"aibox/internal/rag"
	"aibox/internal/service"
	"aibox/internal/settings"
	"aibox/internal/storage"
	"aibox/internal/vectorstore"
)

// app holds the wired services shared by every command.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	llmClient *llm.Client
	chat      service.ChatService
	knowledge service.KnowledgeService
	models    service.ModelService
	copilot   service.CopilotService
	settings  service.SettingsService
	resolver  *settings.Service
}

// setupLogger installs the process logger. Logs go to stderr so command
// output on stdout stays clean.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}

// newApp opens the database and wires the service graph.
func newApp(cfg *config.Config) (*app, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database initialized", "path", cfg.DBPath)

	conversationRepo := storage.NewConversationRepo(db)
	messageRepo := storage.NewMessageRepo(db)
	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	settingsSvc := settings.NewService(storage.NewSettingsRepo(db))

	retry := llm.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, Backoff: cfg.RetryBackoff}
	llmClient := llm.NewClient(llm.Options{Timeout: cfg.HTTPTimeout})
	embedder := llm.NewEmbeddingsClient(llmClient, retry)
	vectorStore := vectorstore.NewSQLiteStore(chunkRepo)

	pipeline := indexer.NewPipeline(documentRepo, chunkRepo, embedder, vectorStore, settingsSvc, indexer.Options{
		EmbeddingModel: cfg.EmbeddingModel,
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
	})
	engine := rag.NewEngine(embedder, settingsSvc, vectorStore, chunkRepo, rag.Options{
		EmbeddingModel: cfg.EmbeddingModel,
		TopK:           cfg.SearchTopK,
		CacheSize:      cfg.QueryCacheSize,
	})

	catalog, err := llm.LoadCatalog()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load model catalog: %w", err)
	}
	deviceFlow := llm.NewDeviceFlow(cfg.CopilotClientID, endpoints.GitHub, llmClient.HTTPClient())

	return &app{
		cfg:       cfg,
		db:        db,
		llmClient: llmClient,
		chat:      service.NewChatService(conversationRepo, messageRepo, llmClient, settingsSvc, engine, retry),
		knowledge: service.NewKnowledgeService(pipeline, engine),
		models:    service.NewModelService(catalog, settingsSvc, llmClient),
		copilot:   service.NewCopilotService(deviceFlow, settingsSvc),
		settings:  service.NewSettingsService(settingsSvc),
		resolver:  settingsSvc,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
