package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalogEntry(t *testing.T) {
	p := Product{
		ID:       "p1",
		Name:     "Green Tea",
		SKU:      "GT-01",
		Brand:    "Assam Co",
		Category: "Beverages",
		Image:    []string{"", "https://img/gt.png"},
	}

	e := NewCatalogEntry(p, "")
	assert.Equal(t, "Green Tea (GT-01)", e.Label)
	assert.Equal(t, "Assam Co - Beverages", e.Details)
	assert.Equal(t, "green tea gt-01 assam co beverages", e.Search)
	assert.Equal(t, "https://img/gt.png", e.Thumbnail)

	e = NewCatalogEntry(p, "https://signed/gt.png")
	assert.Equal(t, "https://signed/gt.png", e.Thumbnail)
}

func TestFilterEntries(t *testing.T) {
	entries := []CatalogEntry{
		NewCatalogEntry(Product{ID: "1", Name: "Green Tea", SKU: "GT-01", Brand: "Assam", Category: "Drinks"}, ""),
		NewCatalogEntry(Product{ID: "2", Name: "Rice", SKU: "RC-5", Brand: "Basmati", Category: "Grains"}, ""),
	}

	assert.Len(t, FilterEntries(entries, ""), 2)
	assert.Len(t, FilterEntries(entries, "  "), 2)

	got := FilterEntries(entries, "TEA")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "1", got[0].ID)
	}
	got = FilterEntries(entries, "rc-5")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}
	assert.Empty(t, FilterEntries(entries, "coffee"))
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 12.5, CoercePrice(12.5))
	assert.Equal(t, 7.0, CoercePrice(int64(7)))
	assert.Equal(t, 0.0, CoercePrice("12"))
	assert.Equal(t, 0.0, CoercePrice(nil))

	assert.Equal(t, 5, CoerceStock(int64(5)))
	assert.Equal(t, 3, CoerceStock(3.0))
	assert.Equal(t, 0, CoerceStock("5"))
	assert.Equal(t, 0, CoerceStock(nil))
}

func TestStockAfterSale(t *testing.T) {
	p := Product{StockQuantity: 5}
	assert.Equal(t, 0, p.StockAfterSale(5))
	assert.Equal(t, -5, p.StockAfterSale(10))
}
