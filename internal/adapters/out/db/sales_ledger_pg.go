// internal/adapters/out/db/sales_ledger_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	invoicedom "posbilling/internal/domain/invoice"
)

// SalesLedgerPG は作成済み invoice を Postgres の sales_ledger に 1 行ずつ写します（集計用ミラー）。
// 正は Firestore の invoices。こちらは best-effort。
type SalesLedgerPG struct {
	DB *sql.DB
}

func NewSalesLedgerPG(db *sql.DB) *SalesLedgerPG {
	return &SalesLedgerPG{DB: db}
}

var _ invoicedom.Ledger = (*SalesLedgerPG)(nil)

const salesLedgerDDL = `
CREATE TABLE IF NOT EXISTS sales_ledger (
    invoice_id     TEXT PRIMARY KEY,
    tenant_id      TEXT NOT NULL,
    customer_name  TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    product_ids    TEXT[] NOT NULL,
    total_quantity INTEGER NOT NULL,
    subtotal       NUMERIC(14,2) NOT NULL,
    grand_total    NUMERIC(14,2) NOT NULL,
    items          JSONB NOT NULL
)`

// EnsureSchema は sales_ledger が無ければ作成します。
func (r *SalesLedgerPG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("sales ledger: db is nil")
	}
	if _, err := r.DB.ExecContext(ctx, salesLedgerDDL); err != nil {
		return fmt.Errorf("sales ledger: ensure schema: %w", err)
	}
	return nil
}

// Record は 1 invoice を挿入します。同じ invoice_id の再送は無視。
func (r *SalesLedgerPG) Record(ctx context.Context, tenantID string, inv invoicedom.Invoice) error {
	if r == nil || r.DB == nil {
		return errors.New("sales ledger: db is nil")
	}
	if strings.TrimSpace(inv.ID) == "" {
		return errors.New("sales ledger: invoice id is empty")
	}

	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("sales ledger: marshal items: %w", err)
	}
	productIDs := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		productIDs = append(productIDs, it.ProductID)
	}

	const q = `
INSERT INTO sales_ledger (
    invoice_id, tenant_id, customer_name, created_at,
    product_ids, total_quantity, subtotal, grand_total, items
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (invoice_id) DO NOTHING`

	_, err = r.DB.ExecContext(ctx, q,
		inv.ID,
		strings.TrimSpace(tenantID),
		inv.CustomerName,
		inv.CreatedAt.UTC(),
		pq.Array(productIDs),
		inv.TotalQuantity(),
		inv.Subtotal,
		inv.GrandTotal,
		string(items),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("sales ledger: insert (pq %s): %w", pqErr.Code, err)
		}
		return fmt.Errorf("sales ledger: insert: %w", err)
	}
	return nil
}
