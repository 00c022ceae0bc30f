package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/carbonwise/backend/internal/domain"
)

// KeyRing is an ordered list of API credentials consumed until one succeeds
type KeyRing struct {
	keys []string
}

// NewKeyRing trims, drops empty values and de-duplicates keys, keeping first-seen order
func NewKeyRing(keys []string) *KeyRing {
	seen := make(map[string]bool, len(keys))
	ring := &KeyRing{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		ring.keys = append(ring.keys, k)
	}
	return ring
}

// Len returns the number of usable keys
func (r *KeyRing) Len() int {
	return len(r.keys)
}

// Do calls fn with each key in order and returns the first success.
// There is no backoff between keys. When every key fails the last error is
// returned wrapped in domain.ErrLLMUnavailable.
func (r *KeyRing) Do(ctx context.Context, fn func(ctx context.Context, index int, key string) (int, error)) (int, error) {
	if len(r.keys) == 0 {
		return 0, domain.ErrLLMNoCredentials
	}

	var lastErr error
	for i, key := range r.keys {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
		}

		value, err := fn(ctx, i+1, key)
		if err == nil {
			return value, nil
		}
		lastErr = fmt.Errorf("key %d: %w", i+1, err)
	}

	return 0, fmt.Errorf("%w: all %d keys failed, last error: %w", domain.ErrLLMUnavailable, len(r.keys), lastErr)
}
