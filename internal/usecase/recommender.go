package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/carbonwise/backend/internal/domain"
)

// MaxRecommendations caps the number of alternatives returned
const MaxRecommendations = 10

// Recommend finds catalog products in the same category as productName with a
// lower footprint, sorted ascending by footprint.
//
// The category is the longest catalog category that appears (case-insensitively)
// in productName. Rows titled exactly productName are excluded. A nil baseline
// disables the "strictly lower" filter. Equal footprints keep catalog order.
func Recommend(
	productName string,
	baseline *float64,
	catalog []domain.CatalogProduct,
	table domain.FactorTable,
) []domain.Recommendation {
	category, ok := matchCategory(productName, catalog)
	if !ok {
		return []domain.Recommendation{}
	}

	recommendations := make([]domain.Recommendation, 0)
	for _, row := range catalog {
		if row.Category != category || row.Title == productName {
			continue
		}

		footprint, ok := catalogFootprint(row, table)
		if !ok {
			continue
		}
		if baseline != nil && !(footprint < *baseline) {
			continue
		}

		recommendations = append(recommendations, domain.Recommendation{
			ProductName:     row.Title,
			ImageURL:        row.ImageURL,
			Material:        row.Material,
			CarbonFootprint: footprint,
			Link:            row.Link,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].CarbonFootprint < recommendations[j].CarbonFootprint
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}
	return recommendations
}

// matchCategory returns the most specific catalog category contained in name
func matchCategory(name string, catalog []domain.CatalogProduct) (string, bool) {
	var categories []string
	seen := make(map[string]bool)
	for _, row := range catalog {
		if strings.TrimSpace(row.Category) == "" || seen[row.Category] {
			continue
		}
		seen[row.Category] = true
		categories = append(categories, row.Category)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return len(categories[i]) > len(categories[j])
	})

	nameLower := strings.ToLower(name)
	for _, category := range categories {
		if strings.Contains(nameLower, strings.ToLower(category)) {
			return category, true
		}
	}
	return "", false
}

// catalogFootprint computes weight x quantity x factor rounded to 3 decimals.
// Materials missing from the table use DefaultEmissionFactor.
func catalogFootprint(row domain.CatalogProduct, table domain.FactorTable) (float64, bool) {
	factor := DefaultEmissionFactor
	if table != nil {
		if f, ok := table.Factor(row.Material); ok {
			factor = f
		}
	}

	footprint := roundTo(row.WeightValue*row.NetQuantity*factor, 3)
	if math.IsNaN(footprint) || math.IsInf(footprint, 0) {
		return 0, false
	}
	return footprint, true
}

// roundTo rounds v half away from zero to the given number of decimals
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
