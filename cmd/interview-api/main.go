package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/devmoka/interview-coach/internal/adapters/http"
	"github.com/devmoka/interview-coach/internal/adapters/llm"
	firestorestore "github.com/devmoka/interview-coach/internal/adapters/storage/firestore"
	memstore "github.com/devmoka/interview-coach/internal/adapters/storage/memory"
	redisstore "github.com/devmoka/interview-coach/internal/adapters/storage/redis"
	"github.com/devmoka/interview-coach/internal/app/dialogue"
	"github.com/devmoka/interview-coach/internal/app/generation"
	"github.com/devmoka/interview-coach/internal/config"
	"github.com/devmoka/interview-coach/internal/domain"
	"github.com/devmoka/interview-coach/internal/observability"
)

func main() {
	slog.SetDefault(observability.Logger())

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// LLM: mock or Vertex.
	var (
		generator domain.TextGenerator
		err       error
	)
	if cfg.UseMockLLM {
		slog.Info("using mock text generator")
		generator = llm.NewMockGenerator()
	} else {
		slog.Info("using Vertex AI text generator", "model", cfg.ModelName)
		generator, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			slog.Error("failed to initialize Vertex AI client", "error", err)
			os.Exit(1)
		}
	}

	// Storage backend.
	var (
		sessionStore domain.SessionStore
		historyStore domain.HistoryStore
	)
	switch cfg.StorageBackend {
	case "redis":
		slog.Info("using Redis storage", "addr", cfg.RedisAddr)
		client := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() {
			if err := client.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
		sessionStore = redisstore.NewSessionStore(client, redisstore.WithTTL(cfg.RedisTTL))
		historyStore = redisstore.NewHistoryStore(client, redisstore.WithTTL(cfg.RedisTTL))

	case "firestore":
		slog.Info("using Firestore storage", "project", cfg.GCPProjectID)
		client, err := firestorestore.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			slog.Error("failed to initialize Firestore client", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				slog.Error("failed to close firestore client", "error", err)
			}
		}()
		sessionStore = firestorestore.NewSessionStore(client)
		historyStore = firestorestore.NewHistoryStore(client)

	default:
		slog.Info("using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		historyStore = memstore.NewHistoryStore()
	}

	genClient := generation.NewClient(generator, historyStore,
		generation.WithSystemPrompt(dialogue.SystemPrompt),
		generation.WithHistoryLimit(cfg.HistoryLimit),
		generation.WithTimeout(cfg.GenerationTimeout),
	)

	svc := dialogue.NewService(sessionStore, historyStore, genClient)
	handler := httpadapter.NewServer(svc)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("interview API listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-shutdownCtx.Done()
	slog.Info("shutting down")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
