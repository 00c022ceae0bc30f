package domain

import "strings"

// EstimateSource records which step of the estimation waterfall produced a value
type EstimateSource string

const (
	// SourceDataset means the material matched the emission factor table
	SourceDataset EstimateSource = "DATASET"
	// SourceLLM means the value came from the language model
	SourceLLM EstimateSource = "LLM"
	// SourceFallback means the generic default factor was applied
	SourceFallback EstimateSource = "FALLBACK"
)

// FootprintEstimate is a per-request carbon footprint in kg CO2e
type FootprintEstimate struct {
	ValueKg float64        `json:"valueKg"`
	Source  EstimateSource `json:"source"`
}

// EmissionFactor maps a canonical material key to kg CO2e per kg of material
type EmissionFactor struct {
	Material string  `json:"material"`
	Factor   float64 `json:"factor"`
}

// Equivalency expresses a footprint in everyday terms
type Equivalency struct {
	MilesDriven        float64 `json:"miles_driven"`
	SmartphonesCharged float64 `json:"smartphones_charged"`
	DisplayText        string  `json:"display_text"`
}

// CanonicalMaterial lowercases and trims a material name into a table key
func CanonicalMaterial(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
