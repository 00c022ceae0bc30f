package catalog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonwise/backend/internal/domain"
)

const factorsTSV = "Material\tSource\tkg CO2e per kg\n" +
	"Aluminum\tICE v3\t16.5\n" +
	"Stainless Steel\tICE v3\t6.15\n" +
	"Broken\tICE v3\tn/a\n" +
	"Short\tonly two\n" +
	"aluminum\tduplicate\t1.0\n" +
	"Glass\tICE v3\t1.2\n"

const catalogCSV = `search_query,title,material,weight_value,net_quantity,image_url,link
spoon set,Bamboo Spoon Set,Wood,0.2,6,https://img/1.jpg,https://shop/1
spoon set,"Steel Spoon Set, 12 pcs",Stainless Steel,0.05,12,https://img/2.jpg,https://shop/2
bottle,Glass Bottle,glass,n/a,1,https://img/3.jpg,https://shop/3
`

func TestParseEmissionFactors(t *testing.T) {
	t.Run("parses rows and skips bad ones", func(t *testing.T) {
		table, err := ParseEmissionFactors(strings.NewReader(factorsTSV))
		require.NoError(t, err)

		assert.Equal(t, 3, table.Len())
		f, ok := table.Factor("aluminum")
		assert.True(t, ok)
		assert.Equal(t, 16.5, f)

		_, ok = table.Factor("broken")
		assert.False(t, ok)
		_, ok = table.Factor("short")
		assert.False(t, ok)
	})

	t.Run("empty input is a data table error", func(t *testing.T) {
		_, err := ParseEmissionFactors(strings.NewReader(""))
		assert.ErrorIs(t, err, domain.ErrDataTable)
	})

	t.Run("header only is a data table error", func(t *testing.T) {
		_, err := ParseEmissionFactors(strings.NewReader("Material\tSource\tFactor\n"))
		assert.ErrorIs(t, err, domain.ErrDataTable)
	})
}

func TestParseCatalog(t *testing.T) {
	t.Run("parses rows by header name", func(t *testing.T) {
		products, err := ParseCatalog(strings.NewReader(catalogCSV))
		require.NoError(t, err)
		require.Len(t, products, 3)

		assert.Equal(t, domain.CatalogProduct{
			Title:       "Bamboo Spoon Set",
			Category:    "spoon set",
			Material:    "Wood",
			WeightValue: 0.2,
			NetQuantity: 6,
			ImageURL:    "https://img/1.jpg",
			Link:        "https://shop/1",
		}, products[0])
		assert.Equal(t, "Steel Spoon Set, 12 pcs", products[1].Title)
	})

	t.Run("non-numeric weight loads as NaN", func(t *testing.T) {
		products, err := ParseCatalog(strings.NewReader(catalogCSV))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(products[2].WeightValue))
		assert.Equal(t, 1.0, products[2].NetQuantity)
	})

	t.Run("accepts column aliases in any order", func(t *testing.T) {
		csv := "Link,Quantity,Weight,Material,Title,Category\nhttps://x,2,1.5,Glass,Jar,jar\n"
		products, err := ParseCatalog(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "jar", products[0].Category)
		assert.Equal(t, 1.5, products[0].WeightValue)
		assert.Equal(t, 2.0, products[0].NetQuantity)
		assert.Equal(t, "https://x", products[0].Link)
		assert.Empty(t, products[0].ImageURL)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := ParseCatalog(strings.NewReader("title,material\nA,Glass\n"))
		assert.ErrorIs(t, err, domain.ErrDataTable)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := ParseCatalog(strings.NewReader(""))
		assert.ErrorIs(t, err, domain.ErrDataTable)
	})
}

func writeTables(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	factorsPath := filepath.Join(dir, "emission_factor_dataset.csv")
	catalogPath := filepath.Join(dir, "amazon_products.csv")
	require.NoError(t, os.WriteFile(factorsPath, []byte(factorsTSV), 0o644))
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogCSV), 0o644))
	return factorsPath, catalogPath
}

func TestLoadFromDisk(t *testing.T) {
	factorsPath, catalogPath := writeTables(t)

	table, err := LoadEmissionFactors(factorsPath)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	products, err := LoadCatalog(catalogPath)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	_, err = LoadEmissionFactors(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, domain.ErrDataTable)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, domain.ErrDataTable)
}
