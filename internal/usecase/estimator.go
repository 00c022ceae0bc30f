package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
	"github.com/carbonwise/backend/internal/infrastructure/metrics"
)

// DefaultEmissionFactor is the generic plastic-equivalent factor (kg CO2e per kg)
// used when neither the dataset nor the LLM yields an estimate
const DefaultEmissionFactor = 2.5

// EmissionEstimator computes a footprint with a strict waterfall:
// dataset factor, then LLM estimate, then the default factor.
type EmissionEstimator struct {
	llm          domain.CarbonEstimator
	descriptions *DescriptionBuilder
}

// NewEmissionEstimator creates an estimator. llm may be nil, in which case the
// LLM step is skipped.
func NewEmissionEstimator(llm domain.CarbonEstimator) *EmissionEstimator {
	return &EmissionEstimator{
		llm:          llm,
		descriptions: NewDescriptionBuilder(),
	}
}

// EstimateFootprint always returns a numeric estimate. LLM failures are logged
// and downgraded to the default factor; they never propagate.
func (e *EmissionEstimator) EstimateFootprint(
	ctx context.Context,
	material *string,
	weightKg float64,
	quantity float64,
	scraped *domain.ScrapedProduct,
	table domain.FactorTable,
) domain.FootprintEstimate {
	if material != nil && table != nil {
		if factor, ok := table.Factor(*material); ok {
			return e.record(domain.FootprintEstimate{
				ValueKg: weightKg * quantity * factor,
				Source:  domain.SourceDataset,
			})
		}
	}

	if e.llm != nil {
		description := e.descriptions.Build(scraped, weightKg, quantity)
		value, err := e.llm.EstimateCarbon(ctx, description)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("component", "estimator").Msg("LLM estimate failed, using default factor")
		case value < 0:
			log.Warn().Int("value", value).Str("component", "estimator").Msg("LLM returned negative estimate, using default factor")
		default:
			log.Debug().Str("component", "estimator").Str("description", description).Int("value", value).Msg("LLM estimate")
			return e.record(domain.FootprintEstimate{
				ValueKg: float64(value),
				Source:  domain.SourceLLM,
			})
		}
	}

	return e.record(domain.FootprintEstimate{
		ValueKg: weightKg * quantity * DefaultEmissionFactor,
		Source:  domain.SourceFallback,
	})
}

func (e *EmissionEstimator) record(estimate domain.FootprintEstimate) domain.FootprintEstimate {
	metrics.EstimatesTotal.WithLabelValues(string(estimate.Source)).Inc()
	return estimate
}
