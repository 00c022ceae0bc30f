package usecase

import "strings"

// Conversion factors to kilograms
const (
	gramsPerKg = 1000.0
	kgPerOunce = 0.0283495
	kgPerPound = 0.453592
)

// ConvertToKg normalizes a scraped weight to kilograms.
// A nil unit means the value is already in kg. Unknown units are treated as kg.
func ConvertToKg(value float64, unit *string) float64 {
	if unit == nil {
		return value
	}

	switch strings.ToLower(strings.TrimSpace(*unit)) {
	case "g", "gm", "grams":
		return value / gramsPerKg
	case "oz", "ounce", "ounces":
		return value * kgPerOunce
	case "lb", "lbs", "pound", "pounds":
		return value * kgPerPound
	default:
		// "kg", "kilograms" and anything unrecognized
		return value
	}
}
