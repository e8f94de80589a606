// Package config loads the process configuration from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values. It is constructed
// once at startup and passed explicitly into every component; there is no
// ambient global configuration.
type Config struct {
	ServerPort string
	LogLevel   slog.Level
	LogFormat  string

	GitHubToken         string
	GitHubWebhookSecret string

	// BotMention is the token a comment must carry to address the bot.
	BotMention string

	LLMProvider  string
	GeminiAPIKey string
	OllamaHost   string
	ModelName    string

	// MaxWorkers is the size of the background job worker pool.
	MaxWorkers int
	// ReviewConcurrency bounds the per-run fan-out of model calls.
	ReviewConcurrency int

	LLMTimeout       time.Duration
	MaxRetryAttempts int
	RetryDelay       time.Duration
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("BOT_MENTION", "@pr-review-bot")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("AI_MODEL_NAME", "gemini-1.5-pro-latest")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("REVIEW_CONCURRENCY", 4)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 60)
	viper.SetDefault("MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("RETRY_DELAY_SECONDS", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no .env file loaded", "error", err)
		}
	}

	if viper.GetString("GITHUB_TOKEN") == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN must be set")
	}
	if viper.GetString("GITHUB_WEBHOOK_SECRET") == "" {
		return nil, fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}

	provider := strings.ToLower(viper.GetString("LLM_PROVIDER"))
	if provider == "gemini" && viper.GetString("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set for the gemini provider")
	}

	return &Config{
		ServerPort:          viper.GetString("SERVER_PORT"),
		LogLevel:            parseLogLevel(viper.GetString("LOG_LEVEL")),
		LogFormat:           viper.GetString("LOG_FORMAT"),
		GitHubToken:         viper.GetString("GITHUB_TOKEN"),
		GitHubWebhookSecret: viper.GetString("GITHUB_WEBHOOK_SECRET"),
		BotMention:          viper.GetString("BOT_MENTION"),
		LLMProvider:         provider,
		GeminiAPIKey:        viper.GetString("GEMINI_API_KEY"),
		OllamaHost:          viper.GetString("OLLAMA_HOST"),
		ModelName:           viper.GetString("AI_MODEL_NAME"),
		MaxWorkers:          viper.GetInt("MAX_WORKERS"),
		ReviewConcurrency:   viper.GetInt("REVIEW_CONCURRENCY"),
		LLMTimeout:          time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		MaxRetryAttempts:    viper.GetInt("MAX_RETRY_ATTEMPTS"),
		RetryDelay:          time.Duration(viper.GetInt("RETRY_DELAY_SECONDS")) * time.Second,
	}, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}
