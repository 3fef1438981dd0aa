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

// openaiClient implements Client using the OpenAI Chat Completions API.
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	scrubber   secrets.Scrubber
}

func newOpenAIClient(cfg config.LLMConfig, scrubber secrets.Scrubber) (Client, error) {
	if !cfg.APIKey.IsSet() {
		return nil, fmt.Errorf("openai API key required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.Duration()
	}

	return &openaiClient{
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

// openaiRequest is the Chat Completions request body.
type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// openaiResponse is the Chat Completions response body.
type openaiResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (o *openaiClient) Name() string {
	return "openai:" + o.model
}

func (o *openaiClient) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

func (o *openaiClient) GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	text, err := o.generate(ctx, system, user, &responseFormat{Type: "json_object"})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (o *openaiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return o.generate(ctx, system, user, nil)
}

func (o *openaiClient) generate(ctx context.Context, system, user string, format *responseFormat) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	req := openaiRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		Temperature: 0.3,
		Messages: []openaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: format,
	}

	var text string
	err := withRetries(ctx, o.maxRetries, func() error {
		var err error
		text, err = o.doRequest(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return stripFences(text), nil
}

func (o *openaiClient) doRequest(ctx context.Context, req openaiRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
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
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, o.scrubber.Scrub(string(body)).Scrubbed)}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openaiError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, o.scrubber.Scrub(string(body)).Scrubbed)
	}

	var openaiResp openaiResponse
	if err := json.Unmarshal(body, &openaiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(openaiResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return openaiResp.Choices[0].Message.Content, nil
}

var _ Client = (*openaiClient)(nil)
