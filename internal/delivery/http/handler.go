package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/carbonwise/backend/internal/domain"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// AnalysisUsecase is the pipeline the handlers drive
type AnalysisUsecase interface {
	Analyze(ctx context.Context, url string) *domain.ProductAnalysisResponse
	Recommendations(ctx context.Context, productName string, baseline *float64) *domain.RecommendationsResponse
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis AnalysisUsecase
	tables   domain.TableSource
}

// NewHandler creates a new HTTP handler. Either dependency may be nil, in which
// case the routes that need it answer 503.
func NewHandler(analysis AnalysisUsecase, tables domain.TableSource) *Handler {
	return &Handler{
		analysis: analysis,
		tables:   tables,
	}
}

// MaterialFactor is one row of GET /materials
type MaterialFactor struct {
	Material string  `json:"material"`
	Factor   float64 `json:"factor"`
}

// Root confirms the API is up
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CarbonWise API is running!",
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carbonwise-backend",
		"version": Version,
	})
}

// Analyze handles POST /analyze. Pipeline failures are reported in the body
// with HTTP 200; only malformed requests get a 400.
func (h *Handler) Analyze(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, domain.NewFailedAnalysis(fmt.Errorf("analysis service not configured")))
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewFailedAnalysis(fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)))
		return
	}

	c.JSON(http.StatusOK, h.analysis.Analyze(c.Request.Context(), req.URL))
}

// Recommendations handles POST /recommendations. The product name may come from
// a JSON body or the product_name query parameter.
func (h *Handler) Recommendations(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, &domain.RecommendationsResponse{
			Recommendations: []domain.Recommendation{},
			Error:           "analysis service not configured",
		})
		return
	}

	var req domain.RecommendationsRequest
	var err error
	// ContentLength is -1 for chunked bodies
	if c.ContentType() == binding.MIMEJSON && c.Request.ContentLength != 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, &domain.RecommendationsResponse{
			Recommendations: []domain.Recommendation{},
			Error:           fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err).Error(),
		})
		return
	}
	if req.ProductName == "" {
		req.ProductName = c.Query("product_name")
	}

	c.JSON(http.StatusOK, h.analysis.Recommendations(c.Request.Context(), req.ProductName, req.BaselineFootprint))
}

// Materials lists the known materials and their emission factors, alphabetically
func (h *Handler) Materials(c *gin.Context) {
	if h.tables == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "data tables not configured"})
		return
	}

	table, err := h.tables.FactorTable()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}

	names := table.Materials()
	sort.Strings(names)

	materials := make([]MaterialFactor, 0, len(names))
	for _, name := range names {
		factor, _ := table.Factor(name)
		materials = append(materials, MaterialFactor{Material: name, Factor: factor})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(materials),
		"materials": materials,
	})
}
