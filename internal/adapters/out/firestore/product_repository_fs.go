// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	fscommon "posbilling/internal/adapters/out/firestore/common"
	common "posbilling/internal/domain/common"
	productdom "posbilling/internal/domain/product"
)

// ProductRepositoryFS は businesses/{tenantId}/products を読む product.Repository 実装です。
// 書き込みは stockQuantity の更新のみ。
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col(tenantID string) *firestore.CollectionRef {
	return r.Client.Collection(common.TenantPath(tenantID, "products"))
}

// Compile-time check
var _ productdom.Repository = (*ProductRepositoryFS)(nil)

func (r *ProductRepositoryFS) ListByTenant(ctx context.Context, tenantID string) ([]productdom.Product, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return nil, productdom.ErrInvalidTenantID
	}

	it := r.col(tid).Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			// 途中まで読めていても部分的な一覧は返さない
			return nil, fscommon.MapError("list products", err)
		}
		out = append(out, productFromData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, tenantID, productID string) (productdom.Product, error) {
	if r.Client == nil {
		return productdom.Product{}, fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	pid := strings.TrimSpace(productID)
	if tid == "" {
		return productdom.Product{}, productdom.ErrInvalidTenantID
	}
	if pid == "" {
		return productdom.Product{}, common.ErrNotFound
	}

	snap, err := r.col(tid).Doc(pid).Get(ctx)
	if err != nil {
		return productdom.Product{}, fscommon.MapError("get product", err)
	}
	return productFromData(snap.Ref.ID, snap.Data()), nil
}

// UpdateStockQuantity は stockQuantity フィールドだけを書き換えます（他フィールドは触らない）。
func (r *ProductRepositoryFS) UpdateStockQuantity(ctx context.Context, tenantID, productID string, stock int) error {
	if r.Client == nil {
		return fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	pid := strings.TrimSpace(productID)
	if tid == "" {
		return productdom.ErrInvalidTenantID
	}
	if pid == "" {
		return productdom.ErrInvalidID
	}
	if stock < 0 {
		return productdom.ErrInvalidStock
	}

	_, err := r.col(tid).Doc(pid).Update(ctx, []firestore.Update{
		{Path: "stockQuantity", Value: stock},
	})
	return fscommon.MapError("update stockQuantity", err)
}

// productFromData はドキュメントのフィールドを Product に変換します。
// price / stockQuantity が数値でなければ 0。
func productFromData(id string, data map[string]any) productdom.Product {
	if data == nil {
		data = map[string]any{}
	}
	return productdom.Product{
		ID:            strings.TrimSpace(id),
		Name:          fscommon.AsString(data["name"]),
		SKU:           fscommon.AsString(data["sku"]),
		Brand:         fscommon.AsString(data["brand"]),
		Category:      fscommon.AsString(data["category"]),
		Price:         productdom.CoercePrice(data["price"]),
		StockQuantity: productdom.CoerceStock(data["stockQuantity"]),
		Image:         fscommon.AsStringSlice(data["image"]),
	}
}
