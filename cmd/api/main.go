package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/auth"
	"github.com/pageza/recipe-chat/backend/internal/database"
	"github.com/pageza/recipe-chat/backend/internal/logger"
	"github.com/pageza/recipe-chat/backend/internal/metrics"
	"github.com/pageza/recipe-chat/backend/internal/middleware"
	"github.com/pageza/recipe-chat/backend/internal/router"
	"github.com/pageza/recipe-chat/backend/internal/server"
	"github.com/pageza/recipe-chat/backend/internal/service"
	"github.com/pageza/recipe-chat/backend/internal/storage"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		ServiceName: "recipe-chat-api",
		Environment: string(cfg.Environment),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	os.Exit(serve(zl, func() error { return run(cfg, zl) }))
}

// serve runs the server and returns the process exit code. The logger is
// flushed on every path because os.Exit skips deferred calls.
func serve(zl *zap.Logger, runServer func() error) int {
	defer func() { _ = zl.Sync() }()
	if err := runServer(); err != nil {
		zl.Error("server error", zap.Error(err))
		return 1
	}
	zl.Info("server stopped")
	return 0
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()
	m := metrics.New()

	st, err := store.Open(cfg.Store, service.RecipeEmbedding, zl)
	if err != nil {
		return err
	}
	defer st.Close()

	counter, closeCounter, err := newCounter(ctx, cfg.Redis, zl)
	if err != nil {
		return err
	}
	defer closeCounter()

	provider, err := service.NewProvider(ctx, cfg.AI)
	if err != nil {
		return err
	}
	chat := service.NewChatService(provider, service.ChatServiceConfig{
		Params: service.GenerationParams{
			Temperature:     cfg.AI.Temperature,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
		},
		Parser:            service.Parser{Balanced: cfg.AI.BalancedJSONExtraction},
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		Burst:             cfg.AI.Burst,
	}, m, zl)

	mailer, err := service.NewMailer(cfg.Email, zl)
	if err != nil {
		return err
	}
	var archive service.ExportArchive
	if cfg.Export.S3Bucket != "" {
		client, err := config.NewS3Client(ctx, cfg.Export)
		if err != nil {
			return err
		}
		archive = storage.NewS3Archive(client, cfg.Export.S3Bucket, cfg.Export.URLExpiry)
		zl.Info("recipe export archive enabled", zap.String("bucket", cfg.Export.S3Bucket))
	}
	email := service.NewEmailService(mailer, service.EmailConfig{
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
		AppURL:   cfg.Email.AppURL,
	}, archive, m, zl)

	verifier, err := auth.NewVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	engine, err := router.New(router.Deps{
		Server:     cfg.Server,
		RateLimit:  cfg.RateLimit,
		Logger:     zl,
		Metrics:    m,
		Counter:    counter,
		Health:     st,
		Chat:       chat,
		Recipes:    service.NewRecipeService(st),
		Email:      email,
		Newsletter: service.NewNewsletterService(st, email, zl),
		Sessions:   service.NewSessionService(verifier, st, email, zl),
	})
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, engine, zl)

	errChan := make(chan error, 1)
	go func() {
		zl.Info("starting server",
			zap.String("addr", cfg.Server.Addr()),
			zap.String("environment", string(cfg.Environment)),
			zap.String("store", cfg.Store.Driver),
			zap.String("ai_provider", provider.Name()),
		)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zl.Info("received signal", zap.String("signal", sig.String()))
	}

	return srv.Shutdown(ctx)
}

// newCounter shares rate limit windows through Redis when it is configured.
func newCounter(ctx context.Context, cfg config.RedisConfig, zl *zap.Logger) (middleware.Counter, func(), error) {
	if cfg.URL == "" {
		mem := middleware.NewMemoryCounter(time.Minute)
		return mem, mem.Close, nil
	}
	client, err := database.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	zl.Info("using redis rate limit counters")
	return middleware.NewRedisCounter(client), func() { _ = client.Close() }, nil
}
