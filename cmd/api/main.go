package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/markdave123-py/Cluster/internal/app"
	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/logger"
)

func main() {
	// The logger comes first so configuration errors go through it too.
	_ = godotenv.Load()
	lg, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		lg.Fatal("invalid configuration", "error", err)
	}

	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", "error", err)
	}
	defer application.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			lg.Error("server error", "error", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", "error", err)
	}
}
