package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonwise/backend/internal/domain"
)

func TestEmissionEstimator_EstimateFootprint(t *testing.T) {
	ctx := context.Background()
	table := defaultFactors()
	product := &domain.ScrapedProduct{
		Name:           "Camping Mug",
		MaterialsFound: []string{"Aluminium alloy"},
	}

	t.Run("uses dataset factor when material is known", func(t *testing.T) {
		llm := &MockCarbonEstimator{value: 500}
		e := NewEmissionEstimator(llm)

		material := "aluminum"
		got := e.EstimateFootprint(ctx, &material, 2.0, 3, product, table)

		assert.InDelta(t, 99.0, got.ValueKg, 1e-9)
		assert.Equal(t, domain.SourceDataset, got.Source)
		assert.Zero(t, llm.calls, "LLM must not be consulted when the dataset answers")
	})

	t.Run("dataset lookup is case insensitive", func(t *testing.T) {
		e := NewEmissionEstimator(nil)

		material := "  Stainless Steel "
		got := e.EstimateFootprint(ctx, &material, 1.0, 2, product, table)

		assert.InDelta(t, 12.3, got.ValueKg, 1e-9)
		assert.Equal(t, domain.SourceDataset, got.Source)
	})

	t.Run("asks the LLM when material is unknown", func(t *testing.T) {
		llm := &MockCarbonEstimator{value: 42}
		e := NewEmissionEstimator(llm)

		material := "titanium"
		got := e.EstimateFootprint(ctx, &material, 0.5, 2, product, table)

		assert.Equal(t, 42.0, got.ValueKg)
		assert.Equal(t, domain.SourceLLM, got.Source)
		require.Equal(t, 1, llm.calls)
		assert.Equal(t,
			"Product: Camping Mug, Material: Aluminium alloy, Weight: 0.500 kg each, Quantity: 2",
			llm.lastDescription)
	})

	t.Run("asks the LLM when no material was matched", func(t *testing.T) {
		llm := &MockCarbonEstimator{value: 0}
		e := NewEmissionEstimator(llm)

		got := e.EstimateFootprint(ctx, nil, 1.0, 1, product, table)

		assert.Equal(t, 0.0, got.ValueKg)
		assert.Equal(t, domain.SourceLLM, got.Source)
	})

	t.Run("falls back to default factor when LLM fails", func(t *testing.T) {
		llm := &MockCarbonEstimator{err: errors.New("quota exceeded")}
		e := NewEmissionEstimator(llm)

		got := e.EstimateFootprint(ctx, nil, 1.0, 1, product, table)

		assert.InDelta(t, 2.5, got.ValueKg, 1e-9)
		assert.Equal(t, domain.SourceFallback, got.Source)
		assert.Equal(t, 1, llm.calls)
	})

	t.Run("falls back when LLM returns a negative value", func(t *testing.T) {
		llm := &MockCarbonEstimator{value: -3}
		e := NewEmissionEstimator(llm)

		got := e.EstimateFootprint(ctx, nil, 2.0, 2, product, table)

		assert.InDelta(t, 10.0, got.ValueKg, 1e-9)
		assert.Equal(t, domain.SourceFallback, got.Source)
	})

	t.Run("skips LLM step when none is configured", func(t *testing.T) {
		e := NewEmissionEstimator(nil)

		got := e.EstimateFootprint(ctx, nil, 0.4, 5, product, table)

		assert.InDelta(t, 5.0, got.ValueKg, 1e-9)
		assert.Equal(t, domain.SourceFallback, got.Source)
	})

	t.Run("nil table behaves like an unknown material", func(t *testing.T) {
		e := NewEmissionEstimator(nil)

		material := "aluminum"
		got := e.EstimateFootprint(ctx, &material, 1.0, 1, product, nil)

		assert.Equal(t, domain.SourceFallback, got.Source)
	})

	t.Run("same inputs give the same estimate", func(t *testing.T) {
		e := NewEmissionEstimator(nil)

		material := "steel"
		first := e.EstimateFootprint(ctx, &material, 1.5, 4, product, table)
		second := e.EstimateFootprint(ctx, &material, 1.5, 4, product, table)

		assert.Equal(t, first, second)
	})
}
