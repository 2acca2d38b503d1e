package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/generation"
)

const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2
)

// validateConfig rejects settings the generator cannot run with and
// normalizes retry settings that can fall back to defaults.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (config.LLMConfig, error) {
	if cfg.GeminiAPIKey == "" {
		return cfg, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return cfg, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "invalid max_retries, using default",
			slog.Int("value", cfg.MaxRetries),
			slog.Int("default", defaultMaxRetries))
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelaySeconds < 1 {
		logger.WarnContext(ctx, "invalid retry_delay_seconds, using default",
			slog.Int("value", cfg.RetryDelaySeconds),
			slog.Int("default", defaultRetryDelaySeconds))
		cfg.RetryDelaySeconds = defaultRetryDelaySeconds
	}

	return cfg, nil
}
