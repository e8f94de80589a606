// Package llm provides the generative-model collaborator: prompt assembly
// for per-file review requests and the client that executes them.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/ullrai/pr-review-bot/internal/config"
)

// NoIssuesSentinel is the canonical model response meaning the file is clean
// and no finding should be recorded.
const NoIssuesSentinel = "No issues found."

// Generator produces review text for an assembled prompt.
type Generator interface {
	Review(ctx context.Context, prompt string) (string, error)
}

type modelGenerator struct {
	model   llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator creates a Generator backed by the configured LLM provider.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	model, err := createModel(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &modelGenerator{
		model:   model,
		timeout: cfg.LLMTimeout,
		logger:  logger,
	}, nil
}

// Review executes one model call under the configured timeout.
func (g *modelGenerator) Review(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return resp, nil
}

// IsNoIssues reports whether a model response is the "no issues" sentinel.
func IsNoIssues(body string) bool {
	return strings.TrimSpace(body) == NoIssuesSentinel
}

// createModel builds the LLM client for the configured provider.
func createModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "gemini":
		logger.Info("using Gemini LLM provider", "model", cfg.ModelName)
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set for the gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.ModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)

	case "ollama":
		logger.Info("using Ollama LLM provider", "model", cfg.ModelName, "host", cfg.OllamaHost)
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithModel(cfg.ModelName),
			ollama.WithLogger(logger),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
