package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/carbonwise/backend/internal/domain"
)

// titleNotFound is reported when the page has no product title
const titleNotFound = "Not Found"

// specGroups are tried in order; earlier groups win for a repeated key
var specGroups = [][]string{
	{"#productDetails_techSpec_section_1 tr", "#productDetails_techSpec_section_2 tr"},
	{"table.a-keyvalue tr"},
	{"#productOverview_feature_div table tr", "table.a-normal.a-spacing-micro tr"},
	{"#productDetails_detailBullets_sections1 tr", "#detailBullets_feature_div li"},
}

var (
	titleSelector  = cascadia.MustCompile("#productTitle")
	imageSelectors = []cascadia.Selector{
		cascadia.MustCompile("#landingImage"),
		cascadia.MustCompile("#imgTagWrapperId img"),
	}
	headerCellSelector = cascadia.MustCompile("th")
	dataCellSelector   = cascadia.MustCompile("td")

	compiledSpecGroups = compileGroups(specGroups)

	whitespacePattern = regexp.MustCompile(`\s+`)
	bidiPattern       = regexp.MustCompile(`[\x{200E}\x{200F}\x{202A}-\x{202E}]`)
)

func compileGroups(groups [][]string) [][]cascadia.Selector {
	out := make([][]cascadia.Selector, len(groups))
	for i, group := range groups {
		for _, sel := range group {
			out[i] = append(out[i], cascadia.MustCompile(sel))
		}
	}
	return out
}

// Specs holds the three classified spec row collections
type Specs struct {
	Materials     *OrderedPairs
	Weights       *OrderedPairs
	NetQuantities *OrderedPairs
}

// Extract parses a rendered product page into a ScrapedProduct.
// Missing weight defaults to 1.0 (unit unknown) and missing quantity to 1.
func Extract(page string) (*domain.ScrapedProduct, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	specs := ExtractSpecs(doc)
	product := &domain.ScrapedProduct{
		Name:           extractTitle(doc),
		ImageURL:       extractImage(doc),
		MaterialsFound: specs.Materials.Values(),
		WeightValue:    1.0,
		NetQuantity:    1,
		Materials:      specs.Materials.Pairs(),
		Weights:        specs.Weights.Pairs(),
		NetQuantities:  specs.NetQuantities.Pairs(),
	}

	if raw, ok := specs.Weights.First(); ok {
		value, unit, parsed := ParseWeight(raw)
		product.WeightUnit = unit
		if parsed {
			product.WeightValue = value
		}
	}

	if raw, ok := specs.NetQuantities.First(); ok {
		if n, parsed := ParseQuantity(raw); parsed && n > 0 {
			product.NetQuantity = n
		}
	}

	return product, nil
}

// ExtractSpecs walks the spec selector groups and classifies each key/value row
func ExtractSpecs(doc *html.Node) Specs {
	specs := Specs{
		Materials:     NewOrderedPairs(),
		Weights:       NewOrderedPairs(),
		NetQuantities: NewOrderedPairs(),
	}

	for _, group := range compiledSpecGroups {
		var rows []*html.Node
		for _, sel := range group {
			rows = append(rows, sel.MatchAll(doc)...)
		}

		for _, row := range rows {
			key, value, ok := rowPair(row)
			if !ok {
				continue
			}
			if target := specs.classify(key); target != nil {
				target.Add(key, value)
			}
		}
	}

	return specs
}

// classify routes a row by its key; material wins over weight, weight over quantity
func (s Specs) classify(key string) *OrderedPairs {
	lk := strings.ToLower(key)
	switch {
	case strings.Contains(lk, "material"):
		return s.Materials
	case strings.Contains(lk, "weight"):
		return s.Weights
	case strings.Contains(lk, "net quantity"), strings.Contains(lk, "unit count"), strings.Contains(lk, "quantity"):
		return s.NetQuantities
	default:
		return nil
	}
}

// rowPair reads a key/value from a table row (first two th/td cells, headers
// first) or a list item ("Key : Value").
func rowPair(row *html.Node) (string, string, bool) {
	if row.Data == "tr" {
		cells := append(headerCellSelector.MatchAll(row), dataCellSelector.MatchAll(row)...)
		if len(cells) < 2 {
			return "", "", false
		}
		return nodeText(cells[0]), nodeText(cells[1]), true
	}

	text := nodeText(row)
	key, value, found := strings.Cut(text, ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func extractTitle(doc *html.Node) string {
	if n := titleSelector.MatchFirst(doc); n != nil {
		if title := nodeText(n); title != "" {
			return title
		}
	}
	return titleNotFound
}

func extractImage(doc *html.Node) *string {
	for _, sel := range imageSelectors {
		n := sel.MatchFirst(doc)
		if n == nil {
			continue
		}
		if src := attr(n, "src"); src != "" {
			return &src
		}
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// nodeText returns the visible text of n with whitespace collapsed and
// directional marks removed
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		// Skip script and style tags
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)

	text := bidiPattern.ReplaceAllString(buf.String(), "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
