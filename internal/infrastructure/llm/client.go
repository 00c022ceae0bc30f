package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/carbonwise/backend/internal/domain"
	"github.com/carbonwise/backend/internal/infrastructure/metrics"
)

// Supported providers
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// maxResponseBytes bounds how much of a provider response we read
const maxResponseBytes = 1 << 20

// Attempt outcome label values
const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeNoNumber = "no_number"
)

// Config selects and tunes an LLM provider
type Config struct {
	Provider          string
	APIKeys           []string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewClient builds the configured provider. It returns domain.ErrLLMNoCredentials
// when no usable key is configured so callers can run without an LLM.
func NewClient(cfg Config) (domain.CarbonEstimator, error) {
	keys := NewKeyRing(cfg.APIKeys)
	if keys.Len() == 0 {
		return nil, domain.ErrLLMNoCredentials
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini, "":
		return NewGeminiClient(keys, cfg), nil
	case ProviderOpenRouter:
		return NewOpenRouterClient(keys, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// transport is the plumbing shared by every provider
type transport struct {
	provider    string
	httpClient  *http.Client
	keys        *KeyRing
	rateLimiter *rate.Limiter
}

func newTransport(provider string, keys *KeyRing, cfg Config) transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5)

	return transport{
		provider: provider,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keys:        keys,
		rateLimiter: limiter,
	}
}

// estimate runs call once per key until a parsable integer comes back
func (t *transport) estimate(
	ctx context.Context,
	description string,
	call func(ctx context.Context, key, description string) (string, error),
) (int, error) {
	return t.keys.Do(ctx, func(ctx context.Context, index int, key string) (int, error) {
		if err := t.rateLimiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limiter error: %w", err)
		}

		text, err := call(ctx, key, description)
		if err != nil {
			metrics.LLMAttemptsTotal.WithLabelValues(t.provider, outcomeError).Inc()
			log.Warn().Err(err).Str("component", "llm").Str("provider", t.provider).Int("key", index).Msg("LLM call failed")
			return 0, err
		}

		value, err := ParseEstimate(text)
		if err != nil {
			metrics.LLMAttemptsTotal.WithLabelValues(t.provider, outcomeNoNumber).Inc()
			log.Warn().Err(err).Str("component", "llm").Str("provider", t.provider).Int("key", index).Msg("LLM output had no number")
			return 0, err
		}

		metrics.LLMAttemptsTotal.WithLabelValues(t.provider, outcomeSuccess).Inc()
		log.Debug().Str("component", "llm").Str("provider", t.provider).Int("key", index).Int("value", value).Msg("LLM estimate")
		return value, nil
	})
}

// do executes a request and returns the (bounded) body of a 200 response
func (t *transport) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CarbonWise/1.0")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full request URL; keep only the cause
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("calling %s API: %w", t.provider, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API returned status %d: %s", t.provider, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// readLimitedBody reads up to limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
