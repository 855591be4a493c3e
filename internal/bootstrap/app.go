package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"content-backend/internal/analysis"
	"content-backend/internal/contents"
	"content-backend/internal/events"
	"content-backend/internal/extract"
	"content-backend/internal/llm"
	"content-backend/internal/llm/gemini"
	"content-backend/internal/llm/openai"
	"content-backend/internal/pipeline"
	"content-backend/internal/platform"
	"content-backend/internal/shared/config"
	"content-backend/internal/shared/server"
	"content-backend/internal/shared/storage/db"
	"content-backend/internal/shared/storage/object"
	localstore "content-backend/internal/shared/storage/object/local"
	s3store "content-backend/internal/shared/storage/object/s3"
	"content-backend/internal/shared/telemetry"
)

// App holds the wired dependency graph.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Local           *localstore.Store
	Remote          object.KeySaver
	LLM             llm.Client
	Events          events.Publisher
	ContentsRepo    contents.Repo
	Processor       *pipeline.Processor
	Executor        *pipeline.Executor
	ContentsService *contents.Service
	ContentsHandler *contents.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, repo, err := buildRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	local := localstore.New(cfg.LocalStoreDir)

	remote, err := buildRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := buildEvents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider := platform.NewCachedProvider(platform.NewHTTPProvider(), 0)

	extractors := extract.Set{
		Video:    extract.NewVideoExtractor(provider),
		Document: extract.NewDocumentExtractor(local),
		Web:      extract.NewWebExtractor(),
		Image:    extract.NewImageExtractor(),
	}

	processor := &pipeline.Processor{
		Repo:       repo,
		Extractors: extractors,
		Analyzer:   &analysis.Analyzer{LLM: llmClient, Model: cfg.LLMModel},
		Augmenter:  &analysis.Augmenter{LLM: llmClient, Model: cfg.LLMModel},
		Events:     publisher,
	}
	executor := pipeline.NewExecutor(processor)

	svc := &contents.Service{
		Repo:     repo,
		Local:    local,
		Remote:   remote,
		Executor: executor,
	}
	handler := contents.NewHandler(svc)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Local:           local,
		Remote:          remote,
		LLM:             llmClient,
		Events:          publisher,
		ContentsRepo:    repo,
		Processor:       processor,
		Executor:        executor,
		ContentsService: svc,
		ContentsHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		ContentsHandler: handler,
	})
	return app, nil
}

// buildRepo connects Postgres when DATABASE_URL is set; dev mode without a
// database falls back to the in-memory repo.
func buildRepo(ctx context.Context, cfg config.Config) (*sql.DB, contents.Repo, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.Env == "production" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Warn("db.memory_fallback", map[string]any{"env": cfg.Env})
		return nil, contents.NewMemoryRepo(), nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return sqlDB, &contents.PGRepo{DB: sqlDB}, nil
}

func buildRemote(ctx context.Context, cfg config.Config) (object.KeySaver, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, nil
	}
	store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	if err != nil {
		return nil, fmt.Errorf("build s3 store: %w", err)
	}
	return store, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			telemetry.Warn("llm.not_configured", map[string]any{"provider": "gemini"})
			return &llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, apiKey, cfg.LLMModel)
	case "none":
		return &llm.PlaceholderClient{}, nil
	default:
		apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if apiKey == "" {
			telemetry.Warn("llm.not_configured", map[string]any{"provider": "openai"})
			return &llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(apiKey, cfg.LLMModel)
	}
}

// buildEvents prefers AMQP when configured, then SQS. Both unset leaves the
// publisher nil and terminal events are skipped.
func buildEvents(ctx context.Context, cfg config.Config) (events.Publisher, error) {
	if url := strings.TrimSpace(cfg.EventsAMQPURL); url != "" {
		pub, err := events.NewAMQPPublisher(url)
		if err != nil {
			return nil, fmt.Errorf("build amqp publisher: %w", err)
		}
		return pub, nil
	}
	if strings.TrimSpace(cfg.EventsQueueURL) != "" {
		pub, err := events.NewSQSPublisher(ctx)
		if err != nil {
			return nil, fmt.Errorf("build sqs publisher: %w", err)
		}
		return pub, nil
	}
	return nil, nil
}
