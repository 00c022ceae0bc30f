package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductScraper extracts product signals from a product page URL
type ProductScraper interface {
	Scrape(ctx context.Context, url string) (*ScrapedProduct, error)
}

// CarbonEstimator asks a language model for a whole-number footprint estimate in kg CO2e
type CarbonEstimator interface {
	EstimateCarbon(ctx context.Context, description string) (int, error)
}

// FactorTable is the read-only emission factor lookup
type FactorTable interface {
	// Factor returns the factor for a canonical material key
	Factor(material string) (float64, bool)
	// Materials returns all keys sorted longest first
	Materials() []string
}

// TableSource provides the static tables, loading them on first use
type TableSource interface {
	FactorTable() (FactorTable, error)
	Catalog() ([]CatalogProduct, error)
}
