package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonwise/backend/internal/domain"
)

func spoonProduct() *domain.ScrapedProduct {
	return &domain.ScrapedProduct{
		Name:           "Stainless Steel Spoon Set of 12",
		ImageURL:       strPtr("https://images.example.com/spoon.jpg"),
		MaterialsFound: []string{"Stainless Steel"},
		WeightValue:    25,
		WeightUnit:     strPtr("Grams"),
		NetQuantity:    12,
		Materials:      []domain.SpecPair{{Key: "Material", Value: "Stainless Steel"}},
		Weights:        []domain.SpecPair{{Key: "Item Weight", Value: "25 Grams"}},
		NetQuantities:  []domain.SpecPair{{Key: "Number of Pieces", Value: "12"}},
	}
}

func newTestService(cache domain.CacheRepository, scraper *MockScraper, llm domain.CarbonEstimator) *AnalysisService {
	tables := &MockTableSource{table: defaultFactors(), catalog: spoonCatalog()}
	return NewAnalysisService(cache, scraper, tables, llm, AnalysisServiceConfig{})
}

func TestNewAnalysisService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewAnalysisService(nil, &MockScraper{}, &MockTableSource{}, nil, AnalysisServiceConfig{})
		require.NotNil(t, svc)
		assert.Equal(t, 24*time.Hour, svc.cacheTTL)
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewAnalysisService(nil, &MockScraper{}, &MockTableSource{}, nil, AnalysisServiceConfig{CacheTTL: time.Hour})
		assert.Equal(t, time.Hour, svc.cacheTTL)
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	productURL := "https://www.amazon.in/dp/B0SPOON12"

	t.Run("rejects invalid urls", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not a url", "ftp://example.com/x", "/dp/B0SPOON12"} {
			scraper := &MockScraper{product: spoonProduct()}
			svc := newTestService(nil, scraper, nil)

			resp := svc.Analyze(ctx, raw)

			assert.False(t, resp.Success, raw)
			assert.Equal(t, "Error", resp.ProductName)
			assert.NotEmpty(t, resp.Error)
			assert.Zero(t, scraper.calls, "scraper must not run for %q", raw)
		}
	})

	t.Run("rejects internal hosts", func(t *testing.T) {
		internal := []string{
			"http://169.254.169.254/latest/meta-data/",
			"http://127.0.0.1/dp/B0SPOON12",
			"http://localhost:8080/x",
			"http://api.localhost/x",
			"http://10.0.0.5/",
			"http://192.168.1.1/admin",
			"http://[::1]/",
			"http://[fe80::1]/",
			"http://0.0.0.0/",
		}
		for _, raw := range internal {
			scraper := &MockScraper{product: spoonProduct()}
			svc := newTestService(nil, scraper, nil)

			resp := svc.Analyze(ctx, raw)

			assert.False(t, resp.Success, raw)
			assert.Contains(t, resp.Error, "not allowed", raw)
			assert.Zero(t, scraper.calls, "scraper must not run for %q", raw)
		}
	})

	t.Run("allows internal hosts when configured", func(t *testing.T) {
		scraper := &MockScraper{product: spoonProduct()}
		tables := &MockTableSource{table: defaultFactors(), catalog: spoonCatalog()}
		svc := NewAnalysisService(nil, scraper, tables, nil, AnalysisServiceConfig{AllowPrivateHosts: true})

		resp := svc.Analyze(ctx, "http://127.0.0.1:8080/dp/B0SPOON12")

		assert.True(t, resp.Success, resp.Error)
		assert.Equal(t, 1, scraper.calls)
	})

	t.Run("computes dataset footprint end to end", func(t *testing.T) {
		scraper := &MockScraper{product: spoonProduct()}
		svc := newTestService(nil, scraper, nil)

		resp := svc.Analyze(ctx, productURL)

		require.True(t, resp.Success, resp.Error)
		assert.Equal(t, "Stainless Steel Spoon Set of 12", resp.ProductName)
		require.NotNil(t, resp.CarbonFootprint)
		// 0.025 kg x 12 x 6.15
		assert.InDelta(t, 1.845, *resp.CarbonFootprint, 1e-9)
		assert.Equal(t, string(domain.SourceDataset), resp.FootprintSource)
		require.NotNil(t, resp.Material)
		assert.Equal(t, "stainless steel", *resp.Material)
		require.NotNil(t, resp.WeightValue)
		assert.Equal(t, "25", *resp.WeightValue)
		assert.Equal(t, "Grams", *resp.WeightUnit)
		assert.Equal(t, "https://images.example.com/spoon.jpg", *resp.ImageURL)
		assert.Len(t, resp.Materials, 1)
		assert.Len(t, resp.Weights, 1)
		assert.Len(t, resp.NetQuantities, 1)
		assert.Equal(t, productURL, scraper.lastURL)

		// Wooden 0.045 and Eco 0.72 are below 1.845
		assert.Equal(t, []string{"Wooden Spoon", "Eco Spoon Set"}, titles(resp.Recommendations))
		require.NotNil(t, resp.Equivalency)
		assert.InDelta(t, 9.61, resp.Equivalency.MilesDriven, 1e-9)
	})

	t.Run("falls back to default factor with raw material when nothing matches", func(t *testing.T) {
		product := spoonProduct()
		product.MaterialsFound = []string{"Mystery Polymer"}
		product.WeightValue = 2
		product.WeightUnit = strPtr("Kilograms")
		product.NetQuantity = 0
		scraper := &MockScraper{product: product}
		llm := &MockCarbonEstimator{err: errors.New("boom")}
		svc := newTestService(nil, scraper, llm)

		resp := svc.Analyze(ctx, productURL)

		require.True(t, resp.Success)
		assert.InDelta(t, 5.0, *resp.CarbonFootprint, 1e-9)
		assert.Equal(t, string(domain.SourceFallback), resp.FootprintSource)
		require.NotNil(t, resp.Material)
		assert.Equal(t, "Mystery Polymer", *resp.Material)
		assert.Equal(t, 1, llm.calls)
		require.NotNil(t, resp.Equivalency)
		assert.Contains(t, resp.Equivalency.DisplayText, "miles")
	})

	t.Run("material is null when page lists none", func(t *testing.T) {
		product := spoonProduct()
		product.MaterialsFound = nil
		svc := newTestService(nil, &MockScraper{product: product}, &MockCarbonEstimator{value: 7})

		resp := svc.Analyze(ctx, productURL)

		require.True(t, resp.Success)
		assert.Nil(t, resp.Material)
		assert.Equal(t, 7.0, *resp.CarbonFootprint)
		assert.Equal(t, string(domain.SourceLLM), resp.FootprintSource)
	})

	t.Run("scrape failure becomes in-band error", func(t *testing.T) {
		scraper := &MockScraper{err: fmt.Errorf("%w: navigation timeout", domain.ErrScrapeFailed)}
		svc := newTestService(nil, scraper, nil)

		resp := svc.Analyze(ctx, productURL)

		assert.False(t, resp.Success)
		assert.Equal(t, "Error", resp.ProductName)
		assert.Contains(t, resp.Error, "navigation timeout")
		assert.NotNil(t, resp.Recommendations)
		assert.NotNil(t, resp.Materials)
	})

	t.Run("table failure becomes in-band error without scraping", func(t *testing.T) {
		scraper := &MockScraper{product: spoonProduct()}
		tables := &MockTableSource{tableErr: fmt.Errorf("%w: file not found", domain.ErrDataTable)}
		svc := NewAnalysisService(nil, scraper, tables, nil, AnalysisServiceConfig{})

		resp := svc.Analyze(ctx, productURL)

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "file not found")
		assert.Zero(t, scraper.calls)
	})

	t.Run("caches successful analyses", func(t *testing.T) {
		cache := NewMockCacheRepository()
		scraper := &MockScraper{product: spoonProduct()}
		svc := NewAnalysisService(cache, scraper,
			&MockTableSource{table: defaultFactors(), catalog: spoonCatalog()},
			nil, AnalysisServiceConfig{CacheTTL: 2 * time.Hour})

		first := svc.Analyze(ctx, productURL)
		second := svc.Analyze(ctx, "https://WWW.Amazon.in/dp/B0SPOON12#reviews")

		assert.True(t, cache.setCalled)
		assert.Equal(t, 2*time.Hour, cache.lastTTL)
		assert.Equal(t, 1, scraper.calls, "second request must be served from cache")
		assert.Equal(t, first.ProductName, second.ProductName)
		assert.Equal(t, *first.CarbonFootprint, *second.CarbonFootprint)
		assert.Equal(t, first.Materials, second.Materials)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		cache := NewMockCacheRepository()
		scraper := &MockScraper{err: domain.ErrScrapeFailed}
		svc := newTestService(cache, scraper, nil)

		svc.Analyze(ctx, productURL)

		assert.False(t, cache.setCalled)
	})

	t.Run("cache errors do not fail the request", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("cache down")
		cache.setError = errors.New("cache down")
		svc := newTestService(cache, &MockScraper{product: spoonProduct()}, nil)

		resp := svc.Analyze(ctx, productURL)

		assert.True(t, resp.Success)
	})

	t.Run("corrupt cache entry is treated as a miss", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["analysis:www.amazon.in/dp/B0SPOON12"] = []byte("{not json")
		scraper := &MockScraper{product: spoonProduct()}
		svc := newTestService(cache, scraper, nil)

		resp := svc.Analyze(ctx, productURL)

		assert.True(t, resp.Success)
		assert.Equal(t, 1, scraper.calls)
	})

	t.Run("response serializes spec pairs as arrays", func(t *testing.T) {
		svc := newTestService(nil, &MockScraper{product: spoonProduct()}, nil)

		data, err := json.Marshal(svc.Analyze(ctx, productURL))
		require.NoError(t, err)

		assert.Contains(t, string(data), `"materials":[["Material","Stainless Steel"]]`)
		assert.Contains(t, string(data), `"weight_value":"25"`)
	})
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("returns alternatives for a product name", func(t *testing.T) {
		svc := newTestService(nil, &MockScraper{}, nil)

		resp := svc.Recommendations(ctx, "Bamboo Spoon Set", nil)

		assert.True(t, resp.Success)
		assert.Equal(t, 4, resp.TotalAnalyzed)
		assert.Len(t, resp.Recommendations, 4)
	})

	t.Run("honours the baseline", func(t *testing.T) {
		svc := newTestService(nil, &MockScraper{}, nil)
		baseline := 1.0

		resp := svc.Recommendations(ctx, "Bamboo Spoon Set", &baseline)

		assert.Equal(t, []string{"Wooden Spoon", "Eco Spoon Set"}, titles(resp.Recommendations))
	})

	t.Run("rejects empty product name", func(t *testing.T) {
		svc := newTestService(nil, &MockScraper{}, nil)

		resp := svc.Recommendations(ctx, "  ", nil)

		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "product_name")
	})

	t.Run("table failure yields empty success", func(t *testing.T) {
		tables := &MockTableSource{catalogErr: domain.ErrDataTable, table: defaultFactors()}
		svc := NewAnalysisService(nil, &MockScraper{}, tables, nil, AnalysisServiceConfig{})

		resp := svc.Recommendations(ctx, "Bamboo Spoon Set", nil)

		assert.True(t, resp.Success)
		assert.Empty(t, resp.Recommendations)
		assert.NotNil(t, resp.Recommendations)
		assert.Zero(t, resp.TotalAnalyzed)
	})
}

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.amazon.in/dp/B0SPOON12", "analysis:www.amazon.in/dp/B0SPOON12"},
		{"https://WWW.AMAZON.IN/dp/B0SPOON12/", "analysis:www.amazon.in/dp/B0SPOON12"},
		{"https://www.amazon.in/dp/B0SPOON12?th=1#top", "analysis:www.amazon.in/dp/B0SPOON12?th=1"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := validateProductURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, generateCacheKey(u))
		})
	}
}
