package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carbonwise/backend/internal/domain"
)

// maxDescriptionNameLength caps the product name embedded in the LLM prompt
const maxDescriptionNameLength = 200

var (
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// Amazon wraps some values in bidi control marks
	bidiMarksPattern = regexp.MustCompile(`[\x{200E}\x{200F}\x{202A}-\x{202E}]`)
)

// DescriptionBuilder renders a scraped product into the short natural-language
// description handed to the LLM estimator
type DescriptionBuilder struct{}

// NewDescriptionBuilder creates a new description builder
func NewDescriptionBuilder() *DescriptionBuilder {
	return &DescriptionBuilder{}
}

// Build embeds product name, raw material mentions, weight in kg (3 decimals)
// and quantity. Example:
//
//	Product: Steel Spoon Set, Material: Stainless Steel, Weight: 0.025 kg each, Quantity: 12
func (b *DescriptionBuilder) Build(product *domain.ScrapedProduct, weightKg, quantity float64) string {
	var parts []string

	name := "Unknown product"
	if product != nil {
		if cleaned := cleanText(product.Name); cleaned != "" {
			name = truncateAtWord(cleaned, maxDescriptionNameLength)
		}
	}
	parts = append(parts, "Product: "+name)

	if product != nil {
		var mentions []string
		for _, m := range product.MaterialsFound {
			if cleaned := cleanText(m); cleaned != "" {
				mentions = append(mentions, cleaned)
			}
		}
		if len(mentions) > 0 {
			parts = append(parts, "Material: "+strings.Join(mentions, "; "))
		}
	}

	parts = append(parts,
		fmt.Sprintf("Weight: %.3f kg each", weightKg),
		"Quantity: "+formatQuantity(quantity),
	)

	return strings.Join(parts, ", ")
}

// cleanText strips control marks and collapses whitespace
func cleanText(s string) string {
	s = bidiMarksPattern.ReplaceAllString(s, "")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncateAtWord cuts s to at most limit characters, preferring a word boundary
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if lastSpace := strings.LastIndex(cut, " "); lastSpace > len(cut)/2 {
		cut = cut[:lastSpace]
	}
	return strings.TrimSpace(cut)
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%g", q)
}
