package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/fyrsmithlabs/forge/internal/secrets"
)

// Default configuration values.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultMaxTokens        = 4096
	defaultTimeout          = 60 * time.Second
	defaultMaxRetries       = 3
	defaultBaseBackoff      = 1 * time.Second
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// ErrNoProvider indicates an unknown or unconfigured provider name.
var ErrNoProvider = errors.New("unknown llm provider")

// ErrEmptyResponse indicates the provider returned no content.
var ErrEmptyResponse = errors.New("empty response from model")

// Client is the model provider abstraction the pipeline calls into. One
// instance is shared across all stages of a run.
type Client interface {
	// Name identifies the provider and model for logs.
	Name() string

	// GenerateJSON sends a system and user message and returns the raw
	// JSON response body, with any markdown fences stripped. Callers
	// unmarshal into their stage's output type.
	GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error)

	// GenerateText sends a system and user message and returns the text
	// response, fence-stripped.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// Close releases provider resources.
	Close() error
}

// New creates a Client for the configured provider. The scrubber cleans
// provider error bodies before they are wrapped into returned errors; pass
// secrets.NewNoop() to disable.
func New(ctx context.Context, cfg config.LLMConfig, scrubber secrets.Scrubber) (Client, error) {
	if scrubber == nil {
		scrubber = secrets.NewNoop()
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return newAnthropicClient(cfg, scrubber)
	case config.ProviderOpenAI:
		return newOpenAIClient(cfg, scrubber)
	case config.ProviderGemini:
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoProvider, cfg.Provider)
	}
}

// newLimiter builds the client-side rate limiter from config, falling back
// to the package defaults.
func newLimiter(cfg config.LLMConfig) *rate.Limiter {
	rps := defaultRateLimit
	if cfg.RequestsPerMinute > 0 {
		rps = cfg.RequestsPerMinute / 60.0
	}
	burst := defaultBurst
	if cfg.Burst > 0 {
		burst = cfg.Burst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// retryableError wraps an error to indicate it can be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable walks the wrap chain looking for a retryableError.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// withRetries runs fn up to maxRetries+1 times, sleeping exponentially
// between attempts. Non-retryable errors and context cancellation return
// immediately.
func withRetries(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// stripFences removes a surrounding markdown code fence. Models wrap JSON
// in ```json ... ``` despite instructions not to.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```sql")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
