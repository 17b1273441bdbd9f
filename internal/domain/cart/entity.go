// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// CartLine は請求カートの 1 行（商品ごとに 1 行）。
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Thumbnail string  `json:"thumbnail"`
	SKU       string  `json:"sku"`
}

// LineTotal は unitPrice * quantity を返します。
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart はメモリ上の請求カートです。
//   - Lines keep first-add order (never re-sorted on quantity change)
//   - every Quantity is >= 1
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// AddOrIncrement は item.ProductID を 1 個追加します。
// 既存行があれば数量を +1、なければ数量 1 で末尾に追加（item.Quantity は無視）。
func (c *Cart) AddOrIncrement(item CartLine) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(item.ProductID)
	if pid == "" {
		return ErrInvalidCart
	}

	if idx := c.indexOf(pid); idx >= 0 {
		c.Lines[idx].Quantity++
		return nil
	}

	item.ProductID = pid
	item.Quantity = 1
	if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) {
		item.UnitPrice = 0
	}
	c.Lines = append(c.Lines, item)
	return nil
}

// SetQuantity は該当行の数量をその場で更新します。
// qty < 1 は 1 に丸める。該当行がなければ false。
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return false
	}
	if qty < 1 {
		qty = 1
	}
	c.Lines[idx].Quantity = qty
	return true
}

// Remove は該当行を削除します。なければ false を返しカートは変更しない。
func (c *Cart) Remove(productID string) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return false
	}
	// 順序は維持
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return true
}

// Subtotal は Σ unitPrice × quantity。
func (c *Cart) Subtotal() float64 {
	if c == nil {
		return 0
	}
	sum := 0.0
	for _, l := range c.Lines {
		sum += l.LineTotal()
	}
	return sum
}

// GrandTotal は Subtotal と同額（税・割引は未対応）。
func (c *Cart) GrandTotal() float64 {
	return c.Subtotal()
}

func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Snapshot は行のディープコピーを返します。
func (c *Cart) Snapshot() []CartLine {
	if c == nil || len(c.Lines) == 0 {
		return []CartLine{}
	}
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

// Clear はカートを空にします。
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Lines = []CartLine{}
}

func (c *Cart) indexOf(productID string) int {
	if productID == "" {
		return -1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ParseQuantity は UI の数量入力を正の整数に変換します。
// 正の整数以外（"0", "-3", "abc", "2.5", ""）は 1 になる。
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		// "3.0" のような整数値の小数表記は許容する
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || f > math.MaxInt32 {
			return 1
		}
		n = int(f)
	}
	if n < 1 {
		return 1
	}
	return n
}
