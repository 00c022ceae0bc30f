package catalog

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
)

// Store owns the emission factor table and product catalog.
// Both are read from disk once; after a successful load they are served from
// memory and never mutated. A failed load is retried on the next access.
type Store struct {
	factorsPath string
	catalogPath string

	mu       sync.Mutex
	loaded   bool
	factors  *FactorTable
	products []domain.CatalogProduct
}

// NewStore creates a store for the given table paths. Nothing is read until Load.
func NewStore(factorsPath, catalogPath string) *Store {
	return &Store{
		factorsPath: factorsPath,
		catalogPath: catalogPath,
	}
}

// NewStaticStore creates an already loaded store from in-memory tables
func NewStaticStore(factors *FactorTable, products []domain.CatalogProduct) *Store {
	return &Store{
		loaded:   true,
		factors:  factors,
		products: products,
	}
}

// Load reads both tables if they have not been loaded yet
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	factors, err := LoadEmissionFactors(s.factorsPath)
	if err != nil {
		return err
	}
	products, err := LoadCatalog(s.catalogPath)
	if err != nil {
		return err
	}

	s.factors = factors
	s.products = products
	s.loaded = true

	log.Info().
		Str("component", "catalog").
		Int("materials", factors.Len()).
		Int("products", len(products)).
		Msg("static tables loaded")

	return nil
}

// FactorTable returns the emission factor table, loading it on first use
func (s *Store) FactorTable() (domain.FactorTable, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.factors, nil
}

// Factors returns the concrete table, loading it on first use
func (s *Store) Factors() (*FactorTable, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.factors, nil
}

// Catalog returns the product catalog, loading it on first use.
// The returned slice is shared and must not be modified.
func (s *Store) Catalog() ([]domain.CatalogProduct, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.products, nil
}
