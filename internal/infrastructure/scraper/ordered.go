package scraper

import "github.com/carbonwise/backend/internal/domain"

// OrderedPairs accumulates key/value rows in first-seen order.
// The first non-empty value for a key wins; later values are ignored.
type OrderedPairs struct {
	pairs []domain.SpecPair
	seen  map[string]bool
}

// NewOrderedPairs creates an empty accumulator
func NewOrderedPairs() *OrderedPairs {
	return &OrderedPairs{seen: make(map[string]bool)}
}

// Add records value under key unless the key is already present or value is empty.
// It reports whether the pair was stored.
func (o *OrderedPairs) Add(key, value string) bool {
	if value == "" || o.seen[key] {
		return false
	}
	o.seen[key] = true
	o.pairs = append(o.pairs, domain.SpecPair{Key: key, Value: value})
	return true
}

// Len returns the number of stored pairs
func (o *OrderedPairs) Len() int {
	return len(o.pairs)
}

// First returns the first stored value
func (o *OrderedPairs) First() (string, bool) {
	if len(o.pairs) == 0 {
		return "", false
	}
	return o.pairs[0].Value, true
}

// Values returns stored values in insertion order
func (o *OrderedPairs) Values() []string {
	values := make([]string, len(o.pairs))
	for i, p := range o.pairs {
		values[i] = p.Value
	}
	return values
}

// Pairs returns a copy of the stored pairs in insertion order
func (o *OrderedPairs) Pairs() []domain.SpecPair {
	out := make([]domain.SpecPair, len(o.pairs))
	copy(out, o.pairs)
	return out
}
