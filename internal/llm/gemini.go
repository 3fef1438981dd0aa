package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"

	"github.com/fyrsmithlabs/forge/internal/config"
)

// geminiClient implements Client over the official genai SDK.
type geminiClient struct {
	cli        *genai.Client
	model      string
	limiter    *rate.Limiter
	maxRetries int
}

func newGeminiClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	if !cfg.APIKey.IsSet() {
		return nil, fmt.Errorf("gemini API key required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey.Value(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{
		cli:        cli,
		model:      model,
		limiter:    newLimiter(cfg),
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (g *geminiClient) Name() string {
	return "gemini:" + g.model
}

func (g *geminiClient) Close() error {
	return nil
}

func (g *geminiClient) GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	text, err := g.generate(ctx, system, user, "application/json")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (g *geminiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return g.generate(ctx, system, user, "")
}

func (g *geminiClient) generate(ctx context.Context, system, user, mimeType string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}
	if mimeType != "" {
		genCfg.ResponseMIMEType = mimeType
	}

	var text string
	err := withRetries(ctx, g.maxRetries, func() error {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
			genCfg,
		)
		if err != nil {
			// The SDK does not expose status codes uniformly; treat
			// transport failures as retryable.
			return &retryableError{err: fmt.Errorf("gemini request failed: %w", err)}
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return ErrEmptyResponse
		}
		text = resp.Candidates[0].Content.Parts[0].Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return stripFences(text), nil
}

var _ Client = (*geminiClient)(nil)
