package catalog

import (
	"sort"

	"github.com/carbonwise/backend/internal/domain"
)

// FactorTable is an immutable emission factor lookup keyed by canonical material name
type FactorTable struct {
	entries   []domain.EmissionFactor
	factors   map[string]float64
	materials []string
}

// NewFactorTable builds a table from raw entries. Keys are canonicalized and the
// first occurrence of a duplicate key wins. Empty keys are ignored.
func NewFactorTable(entries []domain.EmissionFactor) *FactorTable {
	t := &FactorTable{
		factors: make(map[string]float64, len(entries)),
	}

	for _, e := range entries {
		key := domain.CanonicalMaterial(e.Material)
		if key == "" {
			continue
		}
		if _, seen := t.factors[key]; seen {
			continue
		}
		t.factors[key] = e.Factor
		t.entries = append(t.entries, domain.EmissionFactor{Material: key, Factor: e.Factor})
		t.materials = append(t.materials, key)
	}

	// Longest first so specific names ("stainless steel") win over substrings ("steel")
	sort.SliceStable(t.materials, func(i, j int) bool {
		return len(t.materials[i]) > len(t.materials[j])
	})

	return t
}

// Factor returns the emission factor for a canonical material key
func (t *FactorTable) Factor(material string) (float64, bool) {
	f, ok := t.factors[domain.CanonicalMaterial(material)]
	return f, ok
}

// Materials returns every key sorted by descending length (ties keep file order)
func (t *FactorTable) Materials() []string {
	out := make([]string, len(t.materials))
	copy(out, t.materials)
	return out
}

// Entries returns the de-duplicated entries in file order
func (t *FactorTable) Entries() []domain.EmissionFactor {
	out := make([]domain.EmissionFactor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of distinct materials
func (t *FactorTable) Len() int {
	return len(t.materials)
}
