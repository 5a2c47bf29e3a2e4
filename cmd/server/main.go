package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aid-linh-pnp/test-question/internal/api"
	"github.com/aid-linh-pnp/test-question/internal/assessment"
	"github.com/aid-linh-pnp/test-question/internal/config"
	"github.com/aid-linh-pnp/test-question/internal/db"
	"github.com/aid-linh-pnp/test-question/internal/github"
	"github.com/aid-linh-pnp/test-question/internal/logger"
	"github.com/aid-linh-pnp/test-question/internal/question"
	"github.com/aid-linh-pnp/test-question/internal/sink"
	"github.com/aid-linh-pnp/test-question/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Assessment Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("questions_path=%s", cfg.QuestionsPath)
	log.Debug("plan_path=%s", cfg.PlanPath)
	log.Debug("results_dir=%s", cfg.ResultsDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("push_worker_count=%d", cfg.PushWorkerCount)
	log.Debug("push_queue_size=%d", cfg.PushQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	records, err := question.LoadBank(cfg.QuestionsPath)
	if err != nil {
		log.Error("failed to load question bank: %v", err)
		os.Exit(1)
	}
	repo := question.NewRepository(records, nil)
	log.Info("question bank loaded: %d questions", len(records))

	plan, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		log.Error("failed to load assessment plan: %v", err)
		os.Exit(1)
	}
	log.Info("assessment plan loaded: %d skills", len(plan.Skills))
	for _, skill := range plan.Skills {
		if !repo.Skills()[skill] {
			log.Warn("plan skill %q has no questions in the bank", skill)
		}
	}

	pushPool := worker.NewPool(cfg.PushWorkerCount, cfg.PushQueueSize)

	gh := github.New(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubToken)
	if gh.Configured() {
		log.Info("result mirror enabled: %s/%s", cfg.GitHubOwner, cfg.GitHubRepo)
	} else {
		log.Info("result mirror disabled (GitHub settings incomplete)")
	}

	srv := &api.Server{
		Repo:  repo,
		Store: assessment.NewStore(),
		DB:    database,
		Results: sink.Multi(
			sink.Func(database.SaveReport),
			sink.FileSink{Dir: cfg.ResultsDir},
		),
		PushPool: pushPool,
		GitHub:   gh,
		Plan:     plan,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pushPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping push pool")
	cancel()
	pushPool.Stop()

	log.Info("===========================================")
	log.Info("Assessment Server Stopped")
	log.Info("===========================================")
}
