package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "qwen/qwen3-8b"
)

// OpenRouterClient estimates footprints with an OpenAI-style chat completions API
type OpenRouterClient struct {
	transport
	model   string
	baseURL string
}

// NewOpenRouterClient creates an OpenRouter-backed estimator
func NewOpenRouterClient(keys *KeyRing, cfg Config) *OpenRouterClient {
	model := cfg.Model
	if model == "" {
		model = defaultOpenRouterModel
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	return &OpenRouterClient{
		transport: newTransport(ProviderOpenRouter, keys, cfg),
		model:     model,
		baseURL:   baseURL,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// EstimateCarbon implements domain.CarbonEstimator
func (c *OpenRouterClient) EstimateCarbon(ctx context.Context, description string) (int, error) {
	return c.estimate(ctx, description, c.complete)
}

func (c *OpenRouterClient) complete(ctx context.Context, key, description string) (string, error) {
	bodyBytes, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: description},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parsing openrouter response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter response has no choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
