// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

// ===============================
// Errors
// ===============================

var (
	ErrInvalidID       = errors.New("product: invalid id")
	ErrInvalidStock    = errors.New("product: invalid stockQuantity")
	ErrInvalidTenantID = errors.New("product: invalid tenantId")
)

// Product は businesses/{tenantId}/products の 1 ドキュメントを表します。
// 在庫管理は外部（在庫管理画面）で行われ、このサービスが書き換えるのは
// 販売後の stockQuantity の減算のみ。
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SKU           string   `json:"sku"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stockQuantity"`
	Image         []string `json:"image"`
}

// Thumbnail は先頭の画像 URL を返します（無ければ空文字）。
func (p Product) Thumbnail() string {
	for _, u := range p.Image {
		if s := strings.TrimSpace(u); s != "" {
			return s
		}
	}
	return ""
}

// StockAfterSale は qty 販売後の在庫数を返します。
// 負の値はそのまま返す（呼び出し側で在庫不足として扱う）。
func (p Product) StockAfterSale(qty int) int {
	return p.StockQuantity - qty
}

// CoercePrice は Firestore から読んだ price を数値に寄せます。
// 数値でなければ 0。
func CoercePrice(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

// CoerceStock は Firestore から読んだ stockQuantity を int に寄せます。
// 数値でなければ 0（= 在庫なし扱い）。
func CoerceStock(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case int32:
		return int(x)
	case float64:
		return int(x)
	case float32:
		return int(x)
	default:
		return 0
	}
}
