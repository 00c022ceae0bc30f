package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiClient estimates footprints with the Gemini generateContent API
type GeminiClient struct {
	transport
	model   string
	baseURL string
}

// NewGeminiClient creates a Gemini-backed estimator
func NewGeminiClient(keys *KeyRing, cfg Config) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiClient{
		transport: newTransport(ProviderGemini, keys, cfg),
		model:     model,
		baseURL:   baseURL,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// EstimateCarbon implements domain.CarbonEstimator
func (c *GeminiClient) EstimateCarbon(ctx context.Context, description string) (int, error) {
	return c.estimate(ctx, description, c.generate)
}

// generate sends one prompt with one key. Gemini takes a single prompt, so the
// system instructions and the description are joined.
func (c *GeminiClient) generate(ctx context.Context, key, description string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nProduct Description: %s", systemPrompt, strings.TrimSpace(description))

	bodyBytes, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(body, &gemResp); err != nil {
		return "", fmt.Errorf("parsing gemini response: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini API")
	}

	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}
