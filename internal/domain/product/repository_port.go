// internal/domain/product/repository_port.go
package product

import "context"

// Repository は businesses/{tenantId}/products に対する出力ポートです。
//
//   - ListByTenant: 全件取得（検索ピッカー用。ページングはしない）
//   - GetByID:      ライブ読み取り。存在しなければ common.ErrNotFound
//   - UpdateStockQuantity: stockQuantity フィールドのみを書き換える
//
// 権限エラーは common.ErrAccessDenied に寄せて返すこと。
type Repository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]Product, error)
	GetByID(ctx context.Context, tenantID, productID string) (Product, error)
	UpdateStockQuantity(ctx context.Context, tenantID, productID string, stock int) error
}
