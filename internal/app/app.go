// Package app initializes and orchestrates the main components of the
// review bot: configuration, logging, the GitHub and LLM collaborators, the
// job dispatcher and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ullrai/pr-review-bot/internal/config"
	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/github"
	"github.com/ullrai/pr-review-bot/internal/jobs"
	"github.com/ullrai/pr-review-bot/internal/llm"
	"github.com/ullrai/pr-review-bot/internal/server"
)

// App holds the main application components.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing PR review bot",
		"provider", cfg.LLMProvider,
		"model", cfg.ModelName,
		"max_workers", cfg.MaxWorkers,
		"review_concurrency", cfg.ReviewConcurrency,
	)

	retry := github.RetryPolicy{
		MaxAttempts:  cfg.MaxRetryAttempts,
		InitialDelay: cfg.RetryDelay,
	}
	ghClient := github.NewPATClient(ctx, cfg.GitHubToken, retry, logger)

	generator, err := llm.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM generator: %w", err)
	}

	prompts, err := llm.NewPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt builder: %w", err)
	}

	reviewJob := jobs.NewReviewJob(cfg, ghClient, generator, prompts, logger)
	dispatcher := jobs.NewDispatcher(reviewJob, cfg.MaxWorkers, logger)
	httpServer := server.NewServer(ctx, cfg, dispatcher, logger)

	logger.Info("PR review bot initialized successfully")
	return &App{
		ctx:        ctx,
		cfg:        cfg,
		server:     httpServer,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting PR review bot", "server_port", a.cfg.ServerPort)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts the application down cleanly: the server first, so no new
// events arrive, then the dispatcher, letting in-flight reviews finish.
func (a *App) Stop() error {
	a.logger.Info("shutting down PR review bot")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop the dispatcher even if the server failed.
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("PR review bot stopped successfully")
	return nil
}
