package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"distris-api/internal/config"
	"distris-api/internal/database"
	"distris-api/internal/logger"
	"distris-api/internal/server"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting supplier catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	dbService := database.New()
	log.Info("Database health check", zap.Any("health", dbService.Health()))

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, dbService.DB())

	done := make(chan struct{})
	go awaitShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}

// awaitShutdown blocks until SIGINT or SIGTERM, then drains in-flight
// requests before releasing server resources.
func awaitShutdown(srv *server.Server, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}
	close(done)
}
