package usecase

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/carbonwise/backend/internal/domain"
)

// EPA greenhouse gas equivalency divisors (kg CO2e per unit)
const (
	epaMilesDrivenFactor      = 0.192
	epaSmartphoneChargeFactor = 0.00822

	// Below this many kg the comparisons are too small to be meaningful
	minEquivalencyKg = 1.0
)

var printer = message.NewPrinter(language.English)

// CalculateEquivalency converts a footprint into miles driven and smartphones
// charged. Returns nil below 1 kg or for non-finite input.
func CalculateEquivalency(footprintKg float64) *domain.Equivalency {
	if math.IsNaN(footprintKg) || math.IsInf(footprintKg, 0) || footprintKg < minEquivalencyKg {
		return nil
	}

	miles := footprintKg / epaMilesDrivenFactor
	phones := footprintKg / epaSmartphoneChargeFactor

	return &domain.Equivalency{
		MilesDriven:        roundTo(miles, 2),
		SmartphonesCharged: roundTo(phones, 2),
		DisplayText: printer.Sprintf("Equivalent to driving ~%d miles or charging ~%d smartphones",
			int64(math.Round(miles)), int64(math.Round(phones))),
	}
}
