// internal/application/presenter/cart_presenter.go
package presenter

import (
	"bytes"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	cartdom "posbilling/internal/domain/cart"
)

// CurrencySymbol は表示用の通貨記号（国際化はしない）。
const CurrencySymbol = "₹"

// EmptyCartText は空カート時のプレースホルダ行の文言。
const EmptyCartText = "Cart is empty"

var printer = message.NewPrinter(language.English)

// FormatCurrency は "₹1,234.50" 形式の文字列を返します。
func FormatCurrency(v float64) string {
	return CurrencySymbol + printer.Sprintf("%.2f", v)
}

// CartRow は #cartItems の 1 行。
type CartRow struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	Thumbnail     string  `json:"thumbnail"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	UnitPriceText string  `json:"unitPriceText"`
	LineTotal     float64 `json:"lineTotal"`
	LineTotalText string  `json:"lineTotalText"`
}

// CartView は Cart の表示用射影。
// SubtotalText / GrandTotalText はそれぞれ #billingSubtotal / #billingGrandTotal に書き込む。
type CartView struct {
	SessionID      string    `json:"sessionId"`
	Rows           []CartRow `json:"rows"`
	Empty          bool      `json:"empty"`
	Subtotal       float64   `json:"subtotal"`
	SubtotalText   string    `json:"subtotalText"`
	GrandTotal     float64   `json:"grandTotal"`
	GrandTotalText string    `json:"grandTotalText"`
	CustomerName   string    `json:"customerName"`
	RowsHTML       string    `json:"rowsHtml"`
}

var rowsTmpl = template.Must(template.New("cartRows").Parse(
	`{{range .Rows}}<tr data-product-id="{{.ProductID}}">` +
		`<td>{{if .Thumbnail}}<img class="cart-thumb" src="{{.Thumbnail}}" alt="{{.Name}}">{{end}}</td>` +
		`<td>{{.Name}}</td>` +
		`<td><input type="number" min="1" class="cart-qty" data-product-id="{{.ProductID}}" value="{{.Quantity}}"></td>` +
		`<td>{{.UnitPriceText}}</td>` +
		`<td>{{.LineTotalText}}</td>` +
		`<td><button type="button" class="cart-delete" data-product-id="{{.ProductID}}">Delete</button></td>` +
		`</tr>{{else}}<tr class="cart-empty"><td colspan="6">{{.EmptyText}}</td></tr>{{end}}`,
))

// RenderCart は cart 全体を毎回描き直す（行単位の差分更新はしない）。
func RenderCart(s *cartdom.Session) CartView {
	v := CartView{Rows: []CartRow{}}
	var c *cartdom.Cart
	if s != nil {
		v.SessionID = s.ID
		v.CustomerName = s.CustomerName
		c = &s.Cart
	}

	for _, l := range c.Snapshot() {
		v.Rows = append(v.Rows, CartRow{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Thumbnail:     l.Thumbnail,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			UnitPriceText: FormatCurrency(l.UnitPrice),
			LineTotal:     l.LineTotal(),
			LineTotalText: FormatCurrency(l.LineTotal()),
		})
	}

	v.Empty = len(v.Rows) == 0
	v.Subtotal = c.Subtotal()
	v.GrandTotal = c.GrandTotal()
	v.SubtotalText = FormatCurrency(v.Subtotal)
	v.GrandTotalText = FormatCurrency(v.GrandTotal)
	v.RowsHTML = renderRows(v.Rows)
	return v
}

func renderRows(rows []CartRow) string {
	var buf bytes.Buffer
	data := struct {
		Rows      []CartRow
		EmptyText string
	}{Rows: rows, EmptyText: EmptyCartText}
	if err := rowsTmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
