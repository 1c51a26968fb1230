package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skecho/skecho-client/internal/config"
	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/stubapi"
	"github.com/skecho/skecho-client/internal/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	stub := stubapi.New(token.NewManager(cfg.Stub.JWTSecret), logger)
	// Seed a signed-in demo user with a complete buyer profile so the
	// client demo has something to gate against.
	stub.SetProfile("demo-user", true, false)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Stub.Port),
		Handler: stub.Router(),
	}

	go func() {
		logger.Info("stub marketplace API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stub server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}
