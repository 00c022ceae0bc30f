package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/carbonwise/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockScraper is a mock implementation of domain.ProductScraper
type MockScraper struct {
	product *domain.ScrapedProduct
	err     error
	calls   int
	lastURL string
}

func (m *MockScraper) Scrape(ctx context.Context, url string) (*domain.ScrapedProduct, error) {
	m.calls++
	m.lastURL = url
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

// MockCarbonEstimator is a mock implementation of domain.CarbonEstimator
type MockCarbonEstimator struct {
	value           int
	err             error
	calls           int
	lastDescription string
}

func (m *MockCarbonEstimator) EstimateCarbon(ctx context.Context, description string) (int, error) {
	m.calls++
	m.lastDescription = description
	if m.err != nil {
		return 0, m.err
	}
	return m.value, nil
}

// mockFactorTable is a map-backed domain.FactorTable
type mockFactorTable map[string]float64

func (m mockFactorTable) Factor(material string) (float64, bool) {
	f, ok := m[domain.CanonicalMaterial(material)]
	return f, ok
}

func (m mockFactorTable) Materials() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// MockTableSource is a mock implementation of domain.TableSource
type MockTableSource struct {
	table      domain.FactorTable
	catalog    []domain.CatalogProduct
	tableErr   error
	catalogErr error
}

func (m *MockTableSource) FactorTable() (domain.FactorTable, error) {
	if m.tableErr != nil {
		return nil, m.tableErr
	}
	return m.table, nil
}

func (m *MockTableSource) Catalog() ([]domain.CatalogProduct, error) {
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	return m.catalog, nil
}

func defaultFactors() mockFactorTable {
	return mockFactorTable{
		"aluminum":        16.5,
		"bamboo":          0.4,
		"plastic":         3.1,
		"silicone":        5.2,
		"stainless steel": 6.15,
		"steel":           1.8,
		"wood":            0.9,
	}
}

func spoonCatalog() []domain.CatalogProduct {
	return []domain.CatalogProduct{
		{Title: "Plastic Spoon Pack", Category: "spoon", Material: "plastic", WeightValue: 0.1, NetQuantity: 24, Link: "https://example.com/plastic"},
		{Title: "Eco Spoon Set", Category: "spoon", Material: "bamboo", WeightValue: 0.3, NetQuantity: 6, Link: "https://example.com/bamboo"},
		{Title: "Steel Spoon Set", Category: "spoon", Material: "stainless steel", WeightValue: 0.2, NetQuantity: 6, Link: "https://example.com/steel"},
		{Title: "Wooden Spoon", Category: "spoon", Material: "wood", WeightValue: 0.05, NetQuantity: 1, Link: "https://example.com/wood"},
		{Title: "Bamboo Toothbrush", Category: "toothbrush", Material: "bamboo", WeightValue: 0.02, NetQuantity: 4},
	}
}
