package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/applyai-api/internal/adapters/http"
	"github.com/PabloGalante/applyai-api/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/applyai-api/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/applyai-api/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/applyai-api/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/applyai-api/internal/app/conversation"
	"github.com/PabloGalante/applyai-api/internal/app/resume"
	"github.com/PabloGalante/applyai-api/internal/config"
	"github.com/PabloGalante/applyai-api/internal/domain"
	"github.com/PabloGalante/applyai-api/internal/observability"
)

func main() {
	log := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	observability.SetLevel(cfg.LogLevel)

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize LLM client", "backend", cfg.LLMBackend, "error", err)
		os.Exit(1)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize store", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	chatSvc := conversation.NewService(llmClient, store, cfg.ModelName)
	resumeSvc := resume.NewService(llmClient, store, cfg.ModelName)

	handler := httpadapter.NewServer(chatSvc, resumeSvc, httpadapter.Options{
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("ApplyAI API listening",
		"addr", srv.Addr,
		"llm_backend", cfg.LLMBackend,
		"model", cfg.ModelName,
		"storage_backend", cfg.StorageBackend,
	)
	if err := runServer(ctx, srv); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	switch cfg.LLMBackend {
	case config.LLMBackendMock:
		observability.Logger().Warn("using MOCK LLM client")
		return llm.NewMockLLM(), nil
	case config.LLMBackendVertex:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Vertex:   true,
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
			Timeout:  cfg.LLMTimeout,
		})
	default:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Timeout: cfg.LLMTimeout,
		})
	}
}

func newStore(ctx context.Context, cfg *config.Config) (domain.Store, error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Warn("using in-memory storage, history is lost on restart")
		return memstore.NewStore(), nil

	case config.StorageSQLite:
		s, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		return s, nil

	default:
		s, err := firestorestore.NewStore(ctx, firestorestore.Config{
			ProjectID:       cfg.GCPProjectID,
			DatabaseID:      cfg.FirestoreDatabaseID,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using firestore storage", "database", cfg.FirestoreDatabaseID)
		return s, nil
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
