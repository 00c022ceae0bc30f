package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
	"github.com/carbonwise/backend/internal/infrastructure/metrics"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL time.Duration
	// AllowPrivateHosts permits product URLs naming loopback, private or link-local hosts
	AllowPrivateHosts bool
}

// AnalysisService runs the product analysis pipeline:
// scrape -> convert weight -> match material -> estimate -> recommend -> respond
type AnalysisService struct {
	cache     domain.CacheRepository
	scraper   domain.ProductScraper
	tables    domain.TableSource
	estimator *EmissionEstimator
	cacheTTL  time.Duration

	allowPrivateHosts bool
}

// NewAnalysisService creates a new analysis service with dependencies.
// cache and llm may be nil.
func NewAnalysisService(
	cache domain.CacheRepository,
	scraper domain.ProductScraper,
	tables domain.TableSource,
	llm domain.CarbonEstimator,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &AnalysisService{
		cache:     cache,
		scraper:   scraper,
		tables:    tables,
		estimator: NewEmissionEstimator(llm),
		cacheTTL:  cacheTTL,

		allowPrivateHosts: config.AllowPrivateHosts,
	}
}

// Analyze estimates the footprint of the product at rawURL.
// It never returns an error: failures come back as Success=false responses.
func (s *AnalysisService) Analyze(ctx context.Context, rawURL string) *domain.ProductAnalysisResponse {
	start := time.Now()

	response, status := s.analyze(ctx, rawURL)

	metrics.AnalysesTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	return response
}

func (s *AnalysisService) analyze(ctx context.Context, rawURL string) (*domain.ProductAnalysisResponse, string) {
	productURL, err := validateProductURL(rawURL)
	if err == nil && !s.allowPrivateHosts {
		err = rejectInternalHost(productURL)
	}
	if err != nil {
		return domain.NewFailedAnalysis(err), metrics.StatusFailure
	}

	cacheKey := generateCacheKey(productURL)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		log.Debug().Str("component", "analysis").Str("url", rawURL).Msg("serving cached analysis")
		return cached, metrics.StatusCached
	}

	// Tables first: no point scraping if we cannot score the result
	table, err := s.tables.FactorTable()
	if err != nil {
		log.Error().Err(err).Str("component", "analysis").Msg("emission factor table unavailable")
		return domain.NewFailedAnalysis(err), metrics.StatusFailure
	}
	catalog, err := s.tables.Catalog()
	if err != nil {
		log.Error().Err(err).Str("component", "analysis").Msg("product catalog unavailable")
		return domain.NewFailedAnalysis(err), metrics.StatusFailure
	}

	scraped, err := s.scraper.Scrape(ctx, productURL.String())
	if err != nil {
		log.Warn().Err(err).Str("component", "analysis").Str("url", rawURL).Msg("scrape failed")
		return domain.NewFailedAnalysis(err), metrics.StatusFailure
	}

	weightValue := scraped.WeightValue
	if math.IsNaN(weightValue) || math.IsInf(weightValue, 0) {
		weightValue = 1.0
	}
	weightKg := ConvertToKg(weightValue, scraped.WeightUnit)

	quantity := float64(scraped.NetQuantity)
	if quantity <= 0 {
		quantity = 1
	}

	var material *string
	if matched, ok := FindBestMaterialMatch(scraped.MaterialsFound, table.Materials()); ok {
		material = &matched
	}

	estimate := s.estimator.EstimateFootprint(ctx, material, weightKg, quantity, scraped, table)
	footprint := roundTo(estimate.ValueKg, 3)

	recommendations := Recommend(scraped.Name, &footprint, catalog, table)
	metrics.RecommendationsReturned.Observe(float64(len(recommendations)))

	weightString := strconv.FormatFloat(weightValue, 'f', -1, 64)
	response := &domain.ProductAnalysisResponse{
		Success:         true,
		ProductName:     scraped.Name,
		ImageURL:        scraped.ImageURL,
		CarbonFootprint: &footprint,
		FootprintSource: string(estimate.Source),
		Material:        displayMaterial(material, scraped.MaterialsFound),
		WeightValue:     &weightString,
		WeightUnit:      scraped.WeightUnit,
		Materials:       nonNilPairs(scraped.Materials),
		Weights:         nonNilPairs(scraped.Weights),
		NetQuantities:   nonNilPairs(scraped.NetQuantities),
		Recommendations: recommendations,
		Equivalency:     CalculateEquivalency(footprint),
	}

	log.Info().
		Str("component", "analysis").
		Str("product", scraped.Name).
		Float64("footprint_kg", footprint).
		Str("source", string(estimate.Source)).
		Int("recommendations", len(recommendations)).
		Msg("analysis complete")

	if err := s.setInCache(ctx, cacheKey, response); err != nil {
		// Caching is best effort
		log.Warn().Err(err).Str("component", "analysis").Msg("failed to cache analysis")
	}

	return response, metrics.StatusSuccess
}

// Recommendations looks up lower-footprint alternatives for a product name.
// Table load failures produce an empty successful result.
func (s *AnalysisService) Recommendations(
	ctx context.Context,
	productName string,
	baseline *float64,
) *domain.RecommendationsResponse {
	if strings.TrimSpace(productName) == "" {
		return &domain.RecommendationsResponse{
			Success:         false,
			Recommendations: []domain.Recommendation{},
			Error:           fmt.Errorf("%w: product_name is required", domain.ErrInvalidRequest).Error(),
		}
	}

	empty := &domain.RecommendationsResponse{Success: true, Recommendations: []domain.Recommendation{}}

	table, err := s.tables.FactorTable()
	if err != nil {
		log.Warn().Err(err).Str("component", "analysis").Msg("recommendations without emission factors")
		return empty
	}
	catalog, err := s.tables.Catalog()
	if err != nil {
		log.Warn().Err(err).Str("component", "analysis").Msg("recommendations without catalog")
		return empty
	}

	recommendations := Recommend(productName, baseline, catalog, table)
	metrics.RecommendationsReturned.Observe(float64(len(recommendations)))

	return &domain.RecommendationsResponse{
		Success:         true,
		Recommendations: recommendations,
		TotalAnalyzed:   len(recommendations),
	}
}

// validateProductURL requires an absolute http(s) URL
func validateProductURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", domain.ErrInvalidRequest, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) URL", domain.ErrInvalidRequest)
	}
	return u, nil
}

// rejectInternalHost refuses hosts that resolve inside the server's own network.
// Names other than localhost are checked again at dial time by the HTTP fetcher.
func rejectInternalHost(u *url.URL) error {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: host %q is not allowed", domain.ErrInvalidRequest, host)
	}
	if ip := net.ParseIP(host); ip != nil && domain.IsInternalIP(ip) {
		return fmt.Errorf("%w: host %q is not allowed", domain.ErrInvalidRequest, host)
	}
	return nil
}

// generateCacheKey creates a normalized cache key from a product URL.
// Format: "analysis:{host}{path}?{query}" with the host lowercased and the fragment dropped
func generateCacheKey(u *url.URL) string {
	key := "analysis:" + strings.ToLower(u.Host) + strings.TrimSuffix(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// displayMaterial prefers the canonical match and falls back to the first raw mention
func displayMaterial(matched *string, mentions []string) *string {
	if matched != nil {
		return matched
	}
	for _, m := range mentions {
		if cleaned := cleanText(m); cleaned != "" {
			return &cleaned
		}
	}
	return nil
}

func nonNilPairs(pairs []domain.SpecPair) []domain.SpecPair {
	if pairs == nil {
		return []domain.SpecPair{}
	}
	return pairs
}

// getFromCache retrieves a previous analysis from cache
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.ProductAnalysisResponse, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var response domain.ProductAnalysisResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &response, nil
}

// setInCache stores a successful analysis in cache
func (s *AnalysisService) setInCache(ctx context.Context, key string, response *domain.ProductAnalysisResponse) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
