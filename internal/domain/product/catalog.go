// internal/domain/product/catalog.go
package product

import (
	"fmt"
	"strings"
)

// CatalogEntry は検索ピッカーの 1 選択肢です。
// Search は name / sku / brand / category を小文字で連結した部分一致用の文字列。
type CatalogEntry struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Details   string `json:"details"`
	Search    string `json:"search"`
	Thumbnail string `json:"thumbnail"`
}

// NewCatalogEntry は Product から検索エントリを組み立てます。
// thumbnail は解決済みの URL を渡す（空なら Product の先頭画像）。
func NewCatalogEntry(p Product, thumbnail string) CatalogEntry {
	if strings.TrimSpace(thumbnail) == "" {
		thumbnail = p.Thumbnail()
	}
	return CatalogEntry{
		ID:        p.ID,
		Label:     fmt.Sprintf("%s (%s)", p.Name, p.SKU),
		Details:   fmt.Sprintf("%s - %s", p.Brand, p.Category),
		Search:    strings.ToLower(strings.Join([]string{p.Name, p.SKU, p.Brand, p.Category}, " ")),
		Thumbnail: thumbnail,
	}
}

// Matches は query を大文字小文字を無視した部分一致で判定します。
// 空クエリは常に true。
func (e CatalogEntry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(e.Search, q)
}

// FilterEntries は query に一致するエントリだけを元の順序のまま返します。
func FilterEntries(entries []CatalogEntry, query string) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}
