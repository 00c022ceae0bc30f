package domain

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// RecommendationsRequest is the body of POST /recommendations
type RecommendationsRequest struct {
	ProductName       string   `json:"product_name" form:"product_name"`
	BaselineFootprint *float64 `json:"baseline_footprint,omitempty" form:"baseline_footprint"`
}

// ProductAnalysisResponse is returned by the analysis pipeline.
// Failures are reported in-band with Success=false.
type ProductAnalysisResponse struct {
	Success         bool             `json:"success"`
	ProductName     string           `json:"product_name"`
	ImageURL        *string          `json:"image_url"`
	CarbonFootprint *float64         `json:"carbon_footprint"`
	FootprintSource string           `json:"footprint_source,omitempty"`
	Material        *string          `json:"material"`
	WeightValue     *string          `json:"weight_value"`
	WeightUnit      *string          `json:"weight_unit"`
	Materials       []SpecPair       `json:"materials"`
	Weights         []SpecPair       `json:"weights"`
	NetQuantities   []SpecPair       `json:"net_quantities"`
	Recommendations []Recommendation `json:"recommendations"`
	Equivalency     *Equivalency     `json:"equivalency,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// NewFailedAnalysis builds the in-band failure response
func NewFailedAnalysis(err error) *ProductAnalysisResponse {
	return &ProductAnalysisResponse{
		Success:         false,
		ProductName:     "Error",
		Materials:       []SpecPair{},
		Weights:         []SpecPair{},
		NetQuantities:   []SpecPair{},
		Recommendations: []Recommendation{},
		Error:           err.Error(),
	}
}

// RecommendationsResponse is returned by POST /recommendations
type RecommendationsResponse struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	TotalAnalyzed   int              `json:"total_analyzed"`
	Error           string           `json:"error,omitempty"`
}
