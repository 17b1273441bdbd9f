// internal/adapters/out/firestore/invoice_repository_fs.go
package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	fscommon "posbilling/internal/adapters/out/firestore/common"
	common "posbilling/internal/domain/common"
	invoicedom "posbilling/internal/domain/invoice"
	productdom "posbilling/internal/domain/product"
)

// InvoiceRepositoryFS は businesses/{tenantId}/invoices への追記専用リポジトリです。
type InvoiceRepositoryFS struct {
	Client *firestore.Client
}

func NewInvoiceRepositoryFS(client *firestore.Client) *InvoiceRepositoryFS {
	return &InvoiceRepositoryFS{Client: client}
}

func (r *InvoiceRepositoryFS) col(tenantID string) *firestore.CollectionRef {
	return r.Client.Collection(common.TenantPath(tenantID, "invoices"))
}

var _ invoicedom.Repository = (*InvoiceRepositoryFS)(nil)

// Create は自動採番 ID で新規ドキュメントを追加します。
func (r *InvoiceRepositoryFS) Create(ctx context.Context, tenantID string, inv invoicedom.Invoice) (invoicedom.Invoice, error) {
	if r.Client == nil {
		return invoicedom.Invoice{}, fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return invoicedom.Invoice{}, productdom.ErrInvalidTenantID
	}
	if err := inv.Validate(); err != nil {
		return invoicedom.Invoice{}, err
	}

	ref, _, err := r.col(tid).Add(ctx, invoiceToDocData(inv))
	if err != nil {
		return invoicedom.Invoice{}, fscommon.MapError("add invoice", err)
	}
	inv.ID = ref.ID
	return inv, nil
}

func (r *InvoiceRepositoryFS) GetByID(ctx context.Context, tenantID, invoiceID string) (invoicedom.Invoice, error) {
	if r.Client == nil {
		return invoicedom.Invoice{}, fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	id := strings.TrimSpace(invoiceID)
	if tid == "" {
		return invoicedom.Invoice{}, productdom.ErrInvalidTenantID
	}
	if id == "" {
		return invoicedom.Invoice{}, common.ErrNotFound
	}

	snap, err := r.col(tid).Doc(id).Get(ctx)
	if err != nil {
		return invoicedom.Invoice{}, fscommon.MapError("get invoice", err)
	}
	return invoiceFromData(snap.Ref.ID, snap.Data()), nil
}

// ListRecent は createdAt 降順で最大 limit 件。
func (r *InvoiceRepositoryFS) ListRecent(ctx context.Context, tenantID string, limit int) ([]invoicedom.Invoice, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("%w: firestore client is nil", common.ErrNotConfigured)
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return nil, productdom.ErrInvalidTenantID
	}
	if limit <= 0 {
		limit = 20
	}

	it := r.col(tid).OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer it.Stop()

	out := []invoicedom.Invoice{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fscommon.MapError("list invoices", err)
		}
		out = append(out, invoiceFromData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

// ========================
// mapping
// ========================

func invoiceToDocData(inv invoicedom.Invoice) map[string]any {
	items := make([]map[string]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"name":      it.Name,
			"price":     it.Price,
			"quantity":  it.Quantity,
			"sku":       it.SKU,
		})
	}
	return map[string]any{
		"customerName": inv.CustomerName,
		"createdAt":    inv.CreatedAt.UTC(),
		"items":        items,
		"subtotal":     inv.Subtotal,
		"grandTotal":   inv.GrandTotal,
	}
}

func invoiceFromData(id string, data map[string]any) invoicedom.Invoice {
	if data == nil {
		data = map[string]any{}
	}
	inv := invoicedom.Invoice{
		ID:           strings.TrimSpace(id),
		CustomerName: fscommon.AsString(data["customerName"]),
		Subtotal:     productdom.CoercePrice(data["subtotal"]),
		GrandTotal:   productdom.CoercePrice(data["grandTotal"]),
		Items:        []invoicedom.Item{},
	}
	if t, ok := fscommon.AsTime(data["createdAt"]); ok {
		inv.CreatedAt = t
	}

	raw, _ := data["items"].([]any)
	for _, x := range raw {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		inv.Items = append(inv.Items, invoicedom.Item{
			ProductID: fscommon.AsString(m["productId"]),
			Name:      fscommon.AsString(m["name"]),
			Price:     productdom.CoercePrice(m["price"]),
			Quantity:  productdom.CoerceStock(m["quantity"]),
			SKU:       fscommon.AsString(m["sku"]),
		})
	}
	return inv
}
