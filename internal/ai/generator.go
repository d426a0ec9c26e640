package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"

	"github.com/marketsnap/internal/retry"
)

// TextGenerator is the single logical operation the generation backend
// exposes: prompt in, text out.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrNoAPIKey is returned when a generator is constructed without a credential.
var ErrNoAPIKey = errors.New("no API key configured")

// GeminiOptions configures the Gemini-backed generator.
type GeminiOptions struct {
	APIKey            string  `json:"api_key"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	RequestsPerMinute int     `json:"requests_per_minute"`
}

// GeminiGenerator implements TextGenerator against the Gemini API through
// langchaingo, with client-side rate limiting and bounded retry.
type GeminiGenerator struct {
	llm     llms.Model
	options GeminiOptions
	limiter *rate.Limiter
	retry   retry.Config
}

// NewGeminiGenerator creates a generator for the given options. The API key
// is required here; callers that want the degraded no-credential behavior
// construct the Client with a nil generator instead.
func NewGeminiGenerator(ctx context.Context, options GeminiOptions) (*GeminiGenerator, error) {
	if options.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if options.Model == "" {
		options.Model = "gemini-2.5-flash"
	}
	if options.MaxTokens <= 0 {
		options.MaxTokens = 256
	}
	if options.RequestsPerMinute <= 0 {
		options.RequestsPerMinute = 30
	}

	model, err := googleai.New(ctx, googleai.WithAPIKey(options.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	log.Debug().
		Str("model", options.Model).
		Int("requests_per_minute", options.RequestsPerMinute).
		Msg("Created Gemini text generator")

	return &GeminiGenerator{
		llm:     model,
		options: options,
		limiter: rate.NewLimiter(rate.Limit(options.RequestsPerMinute)/60, 1),
		retry:   retry.GenerationConfig(),
	}, nil
}

// GenerateText sends the prompt to Gemini and returns the trimmed response
// text. Transient failures are retried with backoff; the final error is
// returned to the caller, which owns the fallback policy.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	var text string
	result := retry.Do(ctx, g.retry, func() error {
		out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
			llms.WithModel(g.options.Model),
			llms.WithTemperature(g.options.Temperature),
			llms.WithMaxTokens(g.options.MaxTokens),
		)
		if err != nil {
			return err
		}
		text = out
		return nil
	})

	if !result.Success {
		return "", result.LastError
	}
	return strings.TrimSpace(text), nil
}
