package domain

import (
	"encoding/json"
	"fmt"
)

// SpecPair is one key/value row scraped from a product details table.
// It is encoded as a two element JSON array, e.g. ["Material", "Steel"].
type SpecPair struct {
	Key   string
	Value string
}

// MarshalJSON encodes the pair as [key, value]
func (p SpecPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Key, p.Value})
}

// UnmarshalJSON decodes a [key, value] array
func (p *SpecPair) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("spec pair must have 2 elements, got %d", len(raw))
	}
	p.Key, p.Value = raw[0], raw[1]
	return nil
}

// ScrapedProduct is the raw material/weight/quantity signal pulled from a product page
type ScrapedProduct struct {
	Name           string   `json:"name"`
	ImageURL       *string  `json:"imageUrl,omitempty"`
	MaterialsFound []string `json:"materialsFound"`
	WeightValue    float64  `json:"weightValue"`
	WeightUnit     *string  `json:"weightUnit,omitempty"`
	NetQuantity    int      `json:"netQuantity"`

	// Raw rows in page order, first value per key
	Materials     []SpecPair `json:"materials"`
	Weights       []SpecPair `json:"weights"`
	NetQuantities []SpecPair `json:"netQuantities"`
}

// CatalogProduct is one row of the static alternatives catalog
type CatalogProduct struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Material    string  `json:"material"`
	WeightValue float64 `json:"weightValue"` // NaN when the cell was not numeric
	NetQuantity float64 `json:"netQuantity"` // NaN when the cell was not numeric
	ImageURL    string  `json:"imageUrl"`
	Link        string  `json:"link"`
}

// Recommendation is a lower-footprint catalog alternative
type Recommendation struct {
	ProductName     string  `json:"product_name"`
	ImageURL        string  `json:"image_url"`
	Material        string  `json:"material"`
	CarbonFootprint float64 `json:"carbon_footprint"`
	Link            string  `json:"link"`
}
