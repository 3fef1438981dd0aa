package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/forge/internal/config"
	"github.com/fyrsmithlabs/forge/internal/secrets"
)

// anthropicClient implements Client using the Anthropic Messages API.
type anthropicClient struct {
	model      string
	apiKey     string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	scrubber   secrets.Scrubber
}

func newAnthropicClient(cfg config.LLMConfig, scrubber secrets.Scrubber) (Client, error) {
	if !cfg.APIKey.IsSet() {
		return nil, fmt.Errorf("anthropic API key required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.Duration()
	}

	return &anthropicClient{
		model:     model,
		apiKey:    cfg.APIKey.Value(),
		baseURL:   baseURL,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    newLimiter(cfg),
		maxRetries: cfg.MaxRetries,
		scrubber:   scrubber,
	}, nil
}

// anthropicRequest is the Messages API request body.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the Messages API response body.
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// jsonOnlyDirective is appended to the system prompt for GenerateJSON; the
// Messages API has no structured-output switch.
const jsonOnlyDirective = "\n\nRespond ONLY with the JSON object, no additional text."

func (a *anthropicClient) Name() string {
	return "anthropic:" + a.model
}

func (a *anthropicClient) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

func (a *anthropicClient) GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	text, err := a.generate(ctx, system+jsonOnlyDirective, user)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (a *anthropicClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return a.generate(ctx, system, user)
}

func (a *anthropicClient) generate(ctx context.Context, system, user string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	req := anthropicRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
		System:      system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	var text string
	err := withRetries(ctx, a.maxRetries, func() error {
		var err error
		text, err = a.doRequest(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return stripFences(text), nil
}

func (a *anthropicClient) doRequest(ctx context.Context, req anthropicRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", a.apiKey)
	httpReq.Header.Set("Anthropic-Version", "2023-06-01")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &retryableError{err: fmt.Errorf("rate limited (429)")}
	}

	if resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, a.scrubber.Scrub(string(body)).Scrubbed)}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, a.scrubber.Scrub(string(body)).Scrubbed)
	}

	var claudeResp anthropicResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", ErrEmptyResponse
	}

	return claudeResp.Content[0].Text, nil
}

var _ Client = (*anthropicClient)(nil)
