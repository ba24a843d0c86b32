package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prestamio/prestamio/pkg/config"
	"github.com/prestamio/prestamio/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	storage, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("path", cfg.DB.Path), zap.Error(err))
	}
	defer storage.Close()

	server := NewServer(storage, cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Periodically flag past-due installments as late.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Sweep.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepDone:
				return
			case <-ticker.C:
				n, err := server.ledger.MarkOverdue(time.Now())
				if err != nil {
					logger.Error("overdue sweep failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("marked installments late", zap.Int64("count", n))
				}
			}
		}
	}()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(sweepDone)

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
