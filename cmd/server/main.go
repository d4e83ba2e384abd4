package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/clock"
	"github.com/prepdeck/prepdeck/internal/config"
	"github.com/prepdeck/prepdeck/internal/db"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/questionbank"
	"github.com/prepdeck/prepdeck/internal/repository/sqlite"
	"github.com/prepdeck/prepdeck/internal/services"
	"github.com/prepdeck/prepdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("PrepDeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("question_bank_url=%s", cfg.QuestionBankURL)
	log.Debug("prefetch_worker_count=%d", cfg.PrefetchWorkerCount)
	log.Debug("prefetch_queue_size=%d", cfg.PrefetchQueueSize)
	log.Debug("standard_exam_size=%d", cfg.StandardExamSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	cardRepo := sqlite.NewCardRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	// Question bank collaborator and prefetch machinery
	bank := questionbank.New(cfg.QuestionBankURL)
	cache := questionbank.NewCache()
	prefetchPool := worker.NewPool(cfg.PrefetchWorkerCount, cfg.PrefetchQueueSize)
	queue := &worker.Queue{Pool: prefetchPool, Bank: bank, Cache: cache}

	// Services
	clk := clock.System{}
	reviewService := services.NewReviewService(cardRepo, clk)
	examService := services.NewExamService(sessionRepo, bank, cache, queue, clk)

	srv := &api.Server{
		ReviewService:   reviewService,
		ExamService:     examService,
		PrefetchPool:    prefetchPool,
		DefaultExamSize: cfg.StandardExamSize,
	}

	ctx, cancel := context.WithCancel(context.Background())
	prefetchPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping prefetch pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	prefetchPool.Stop()

	log.Info("===========================================")
	log.Info("PrepDeck Server Stopped")
	log.Info("===========================================")
}
