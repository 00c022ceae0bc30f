package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEquivalency(t *testing.T) {
	t.Run("150 kg reference value", func(t *testing.T) {
		eq := CalculateEquivalency(150)
		require.NotNil(t, eq)
		assert.InDelta(t, 781.25, eq.MilesDriven, 0.01)
		assert.InDelta(t, 18248.18, eq.SmartphonesCharged, 0.01)
		assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", eq.DisplayText)
	})

	t.Run("below threshold", func(t *testing.T) {
		assert.Nil(t, CalculateEquivalency(0.5))
		assert.Nil(t, CalculateEquivalency(0))
		assert.Nil(t, CalculateEquivalency(-4))
	})

	t.Run("non-finite", func(t *testing.T) {
		assert.Nil(t, CalculateEquivalency(math.NaN()))
		assert.Nil(t, CalculateEquivalency(math.Inf(1)))
	})

	t.Run("exactly one kg", func(t *testing.T) {
		eq := CalculateEquivalency(1)
		require.NotNil(t, eq)
		assert.Contains(t, eq.DisplayText, "~5 miles")
		assert.Contains(t, eq.DisplayText, "~122 smartphones")
	})
}
