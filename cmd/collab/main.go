package main

import (
	"collab-lab/auth"
	"collab-lab/infrastructure/ws"
	"collab-lab/internal"
	"collab-lab/observability"
	"collab-lab/repositories"
	"collab-lab/runtime"
	"collab-lab/runtime/workers"
	"collab-lab/services"
	"collab-lab/sink"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Collab server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer (database close, index close)
// executes before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Archive storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Supervision & Orchestration
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	registry := runtime.NewRegistry()
	ids := internal.NewULIDGenerator()
	historyRepository := repositories.NewHistoryRepository(db, blugeWriter, logger, config.ChatPageLimit)

	orchestrator := runtime.NewOrchestrator(
		logger, supervisor, registry, ids,
		config.BufferSize, config.SinkTimeout, charReplacement,
	)
	stats := observability.NewCollector(logger)
	orchestrator.Add(sink.NewArchiveSink(historyRepository, logger), stats)
	supervisor.Add(stats)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	// 5. Start the engine (session workers, moderation, fanout)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. HTTP/WebSocket transport
	collabService := services.NewCollabService(orchestrator)
	tokens := auth.NewTokenParser([]byte(config.JWTKey))
	server := ws.NewServer(logger, collabService, historyRepository, tokens, stats, config.ConnectionBufferSize)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Router()}

	go func() {
		logger.Info("Listening", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for shutdown signal or fatal error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal caught")
	case err := <-errChan:
		logger.Error("Fatal error", "error", err)
		shutdown(logger, httpServer, orchestrator)
		return exitRuntime, err
	}

	shutdown(logger, httpServer, orchestrator)
	return exitOK, nil
}

func shutdown(logger *slog.Logger, httpServer *http.Server, orchestrator *runtime.Orchestrator) {
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	orchestrator.Stop()
}
