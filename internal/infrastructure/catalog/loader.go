package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
)

// Column aliases accepted in the catalog header, matched case-insensitively
var catalogColumns = map[string][]string{
	"category":     {"search_query", "query", "category"},
	"title":        {"title", "product_name", "name"},
	"material":     {"material"},
	"weight_value": {"weight_value", "weight"},
	"net_quantity": {"net_quantity", "quantity"},
	"image_url":    {"image_url", "image"},
	"link":         {"link", "url"},
}

var requiredCatalogColumns = []string{"category", "title", "material", "weight_value", "net_quantity"}

// LoadEmissionFactors reads the tab separated emission factor file
func LoadEmissionFactors(path string) (*FactorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening emission factors: %v", domain.ErrDataTable, err)
	}
	defer f.Close()

	return ParseEmissionFactors(f)
}

// ParseEmissionFactors parses rows of "material <TAB> unused <TAB> factor".
// The first row is a header. Short rows and non-numeric factors are skipped.
func ParseEmissionFactors(r io.Reader) (*FactorTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing emission factors: %v", domain.ErrDataTable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: emission factor table is empty", domain.ErrDataTable)
	}

	entries := make([]domain.EmissionFactor, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			log.Debug().Str("component", "catalog").Int("row", i+2).Msg("skipping short emission factor row")
			continue
		}
		factor, err := parseNumber(row[2])
		if err != nil {
			log.Debug().Str("component", "catalog").Int("row", i+2).Str("value", row[2]).
				Msg("skipping non-numeric emission factor")
			continue
		}
		entries = append(entries, domain.EmissionFactor{Material: row[0], Factor: factor})
	}

	table := NewFactorTable(entries)
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: emission factor table has no usable rows", domain.ErrDataTable)
	}
	return table, nil
}

// LoadCatalog reads the comma separated product catalog
func LoadCatalog(path string) ([]domain.CatalogProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening catalog: %v", domain.ErrDataTable, err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog parses the product catalog. Columns are located by header name.
// Weight and quantity cells that are not numeric load as NaN.
func ParseCatalog(r io.Reader) ([]domain.CatalogProduct, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: catalog is empty", domain.ErrDataTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog header: %v", domain.ErrDataTable, err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var products []domain.CatalogProduct
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading catalog: %v", domain.ErrDataTable, err)
		}

		products = append(products, domain.CatalogProduct{
			Category:    cell(row, cols["category"]),
			Title:       cell(row, cols["title"]),
			Material:    cell(row, cols["material"]),
			WeightValue: numberOrNaN(cell(row, cols["weight_value"])),
			NetQuantity: numberOrNaN(cell(row, cols["net_quantity"])),
			ImageURL:    cell(row, cols["image_url"]),
			Link:        cell(row, cols["link"]),
		})
	}

	return products, nil
}

// resolveColumns maps logical column names to header indexes (-1 when absent)
func resolveColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cols := make(map[string]int, len(catalogColumns))
	for logical, aliases := range catalogColumns {
		cols[logical] = -1
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[logical] = i
				break
			}
		}
	}

	var missing []string
	for _, name := range requiredCatalogColumns {
		if cols[name] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: catalog missing columns: %s", domain.ErrDataTable, strings.Join(missing, ", "))
	}

	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

func numberOrNaN(s string) float64 {
	v, err := parseNumber(s)
	if err != nil {
		return math.NaN()
	}
	return v
}
