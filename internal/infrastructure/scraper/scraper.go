package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
	"github.com/carbonwise/backend/internal/infrastructure/metrics"
)

// PageScraper fetches a product page and extracts its spec signals
type PageScraper struct {
	fetcher Fetcher
}

// NewPageScraper creates a scraper over the given fetcher
func NewPageScraper(fetcher Fetcher) *PageScraper {
	return &PageScraper{fetcher: fetcher}
}

// Scrape implements domain.ProductScraper. Every failure wraps domain.ErrScrapeFailed.
func (s *PageScraper) Scrape(ctx context.Context, url string) (*domain.ScrapedProduct, error) {
	start := time.Now()

	product, err := s.scrape(ctx, url)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
	}
	metrics.ScrapeDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	return product, err
}

func (s *PageScraper) scrape(ctx context.Context, url string) (*domain.ScrapedProduct, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}

	product, err := Extract(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}

	log.Debug().
		Str("component", "scraper").
		Str("url", url).
		Str("title", product.Name).
		Int("materials", len(product.Materials)).
		Int("weights", len(product.Weights)).
		Int("quantities", len(product.NetQuantities)).
		Msg("page extracted")

	return product, nil
}
