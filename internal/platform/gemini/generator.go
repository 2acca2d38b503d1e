package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the part of the genai client the generator calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// sleepFunc waits for d or until ctx is done.
type sleepFunc func(ctx context.Context, d time.Duration) error

// Generator drafts flashcards with a Gemini model.
type Generator struct {
	models contentGenerator
	model  string
	cfg    config.LLMConfig
	logger *slog.Logger
	sleep  sleepFunc
	rng    *rand.Rand
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator validates cfg and connects a Gemini API client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini_generator"))

	cfg, err := validateConfig(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "gemini generator initialized", slog.String("model", cfg.ModelName))
	return newGenerator(client.Models, cfg, logger, sleepContext), nil
}

func newGenerator(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger, sleep sleepFunc) *Generator {
	return &Generator{
		models: models,
		model:  cfg.ModelName,
		cfg:    cfg,
		logger: logger,
		sleep:  sleep,
		//nolint:gosec // jitter only
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate implements generation.Generator.
func (g *Generator) Generate(ctx context.Context, text string, count int) ([]generation.Draft, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", generation.ErrGenerationFailed, count)
	}

	prompt, err := buildPrompt(text, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	drafts, err := parseDrafts(raw, count)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "drafted cards",
		slog.Int("requested", count),
		slog.Int("drafted", len(drafts)))
	return drafts, nil
}

// callWithRetry sends prompt and returns the response text. Transport errors
// are retried up to MaxRetries times with backoff
// delay = base * 2^attempt * (0.5 + rand[0, 0.5)).
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	callConfig := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	maxRetries := g.cfg.MaxRetries
	base := float64(g.cfg.RetryDelaySeconds)

	for attempt := 0; ; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, contents, callConfig)
		if err == nil {
			return responseText(resp)
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, ctx.Err())
		}

		g.logger.WarnContext(ctx, "gemini call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.String("error", err.Error()))

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		jitter := 0.5 + g.rng.Float64()*0.5
		delay := time.Duration(base * math.Pow(2, float64(attempt)) * jitter * float64(time.Second))
		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
		}
	}
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// parseDrafts decodes the model's JSON, drops incomplete cards and keeps at
// most count of the rest.
func parseDrafts(raw string, count int) ([]generation.Draft, error) {
	var parsed responseSchema
	if err := json.Unmarshal([]byte(stripFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	drafts := make([]generation.Draft, 0, len(parsed.Cards))
	for _, d := range parsed.Cards {
		if !d.Valid() {
			continue
		}
		drafts = append(drafts, generation.Draft{
			Front: strings.TrimSpace(d.Front),
			Back:  strings.TrimSpace(d.Back),
		})
		if len(drafts) == count {
			break
		}
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}
	return drafts, nil
}

// stripFence removes a markdown code fence around the JSON body.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
