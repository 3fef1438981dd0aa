// Package intent turns a user's free-text product request into a feature
// list and optionally sharpens individual features.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/forge/internal/llm"
	"github.com/fyrsmithlabs/forge/internal/spec"
)

// extractPrompt biases extraction toward the target stack's concerns.
const extractPrompt = `Analyze user requests for Next.js 14 + Supabase applications and extract core features.
Focus on:
1. Core functionality and key features
2. Required auth/security features
3. Essential data models
4. Critical API endpoints
5. Keep it simple and practical, dont add any fancy features.

Respond with JSON: {"features": ["...", "..."]}`

// enhancePrompt rewrites one feature into a more specific description.
const enhancePrompt = `You are an expert in writing clear, specific feature descriptions for web applications.
Given a feature description, enhance it to be more specific and actionable.

Guidelines:
- Make it clear and specific
- Include key functionality aspects
- Consider security and UX implications
- Keep it concise but complete

Example Input: "User authentication"
Example Output: "Email and social authentication with JWT tokens and password reset"

Respond with JSON: {"feature": "the enhanced description"}`

// Service extracts and enhances features through the model client.
type Service struct {
	llm llm.Client
}

// NewService creates an intent service backed by the given client.
func NewService(client llm.Client) *Service {
	return &Service{llm: client}
}

// Extract derives a feature list from the user's request. Any model or
// parse failure is wrapped with the extraction stage's error string.
func (s *Service) Extract(ctx context.Context, userInput string) (spec.Intent, error) {
	raw, err := s.llm.GenerateJSON(ctx, extractPrompt, userInput)
	if err != nil {
		return spec.Intent{}, fmt.Errorf("Failed to understand intent: %w", err)
	}

	var out spec.Intent
	if err := json.Unmarshal(raw, &out); err != nil {
		return spec.Intent{}, fmt.Errorf("Failed to understand intent: %w", err)
	}
	if len(out.Features) == 0 {
		return spec.Intent{}, fmt.Errorf("Failed to understand intent: %w", llm.ErrEmptyResponse)
	}
	return out, nil
}

// Enhance rewrites a single feature description to be more specific.
// Returns the enhanced text, or an error the caller reports before keeping
// the raw feature.
func (s *Service) Enhance(ctx context.Context, feature string) (string, error) {
	raw, err := s.llm.GenerateJSON(ctx, enhancePrompt, "Enhance this feature: "+feature)
	if err != nil {
		return "", fmt.Errorf("failed to enhance feature: %w", err)
	}

	var out struct {
		Feature string `json:"feature"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to enhance feature: %w", err)
	}
	enhanced := strings.TrimSpace(out.Feature)
	if enhanced == "" {
		return "", fmt.Errorf("failed to enhance feature: %w", llm.ErrEmptyResponse)
	}
	return enhanced, nil
}
