// internal/domain/invoice/entity.go
package invoice

import (
	"errors"
	"strings"
	"time"

	cartdom "posbilling/internal/domain/cart"
)

var (
	ErrInvalidCustomerName = errors.New("invoice: invalid customerName")
	ErrInvalidItems        = errors.New("invoice: items is required")
	ErrInvalidCreatedAt    = errors.New("invoice: invalid createdAt")
	ErrInvalidQuantity     = errors.New("invoice: invalid quantity")
)

// Item は確定時点のカート行のスナップショット（サムネイルは持たない）。
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	SKU       string  `json:"sku"`
}

// Invoice は確定した販売の不変レコード
// (businesses/{tenantId}/invoices, append-only).
type Invoice struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
	Items        []Item    `json:"items"`
	Subtotal     float64   `json:"subtotal"`
	GrandTotal   float64   `json:"grandTotal"`
}

// NewFromCart は現在のカート行から invoice を組み立てます。
// Items はディープコピーし、以後のカート変更は invoice に影響しない。
// Subtotal と GrandTotal は同額（税・割引なし）。
func NewFromCart(customerName string, lines []cartdom.CartLine, now time.Time) (Invoice, error) {
	items := make([]Item, 0, len(lines))
	subtotal := 0.0
	for _, l := range lines {
		items = append(items, Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
			SKU:       l.SKU,
		})
		subtotal += l.LineTotal()
	}

	inv := Invoice{
		CustomerName: strings.TrimSpace(customerName),
		CreatedAt:    now,
		Items:        items,
		Subtotal:     subtotal,
		GrandTotal:   subtotal,
	}
	if err := inv.Validate(); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.CustomerName) == "" {
		return ErrInvalidCustomerName
	}
	if len(i.Items) == 0 {
		return ErrInvalidItems
	}
	if i.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	for _, it := range i.Items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// TotalQuantity は販売個数の合計。
func (i Invoice) TotalQuantity() int {
	n := 0
	for _, it := range i.Items {
		n += it.Quantity
	}
	return n
}
