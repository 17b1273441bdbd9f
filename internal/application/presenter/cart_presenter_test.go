package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "posbilling/internal/domain/cart"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatCurrency(0))
	assert.Equal(t, "₹750.00", FormatCurrency(750))
	assert.Equal(t, "₹1,234.50", FormatCurrency(1234.5))
}

func TestRenderCart_Empty(t *testing.T) {
	v := RenderCart(&cartdom.Session{ID: "s1"})

	assert.True(t, v.Empty)
	assert.Empty(t, v.Rows)
	assert.Equal(t, "₹0.00", v.SubtotalText)
	assert.Equal(t, "₹0.00", v.GrandTotalText)
	assert.Contains(t, v.RowsHTML, `class="cart-empty"`)
	assert.Contains(t, v.RowsHTML, EmptyCartText)
}

func TestRenderCart_NilSession(t *testing.T) {
	v := RenderCart(nil)
	assert.True(t, v.Empty)
	assert.Equal(t, 0.0, v.GrandTotal)
}

func TestRenderCart_Rows(t *testing.T) {
	s := &cartdom.Session{ID: "s1", CustomerName: "Asha"}
	require.NoError(t, s.Cart.AddOrIncrement(cartdom.CartLine{ProductID: "p1", Name: "Tea", UnitPrice: 75, Thumbnail: "https://img/tea.png"}))
	require.NoError(t, s.Cart.AddOrIncrement(cartdom.CartLine{ProductID: "p2", Name: "Milk <1L>", UnitPrice: 30}))
	s.Cart.SetQuantity("p1", 10)

	v := RenderCart(s)

	require.Len(t, v.Rows, 2)
	assert.False(t, v.Empty)
	assert.Equal(t, "p1", v.Rows[0].ProductID)
	assert.Equal(t, "₹75.00", v.Rows[0].UnitPriceText)
	assert.Equal(t, "₹750.00", v.Rows[0].LineTotalText)
	assert.Equal(t, 780.0, v.Subtotal)
	assert.Equal(t, v.Subtotal, v.GrandTotal)
	assert.Equal(t, "₹780.00", v.GrandTotalText)
	assert.Equal(t, "Asha", v.CustomerName)

	assert.Equal(t, 2, strings.Count(v.RowsHTML, "<tr "))
	assert.Contains(t, v.RowsHTML, `value="10"`)
	assert.Contains(t, v.RowsHTML, "Milk &lt;1L&gt;")
	assert.NotContains(t, v.RowsHTML, "cart-empty")
}
