package invoice

import (
	"context"
)

// Repository ポート（businesses/{tenantId}/invoices）
//
// invoice は追記のみ。更新・削除は提供しない。
type Repository interface {
	// Create は新規ドキュメントとして追加し、採番された ID を埋めて返す。
	Create(ctx context.Context, tenantID string, inv Invoice) (Invoice, error)

	// GetByID は 1 件取得（無ければ common.ErrNotFound）
	GetByID(ctx context.Context, tenantID, invoiceID string) (Invoice, error)

	// ListRecent は createdAt 降順で最大 limit 件を返す。
	ListRecent(ctx context.Context, tenantID string, limit int) ([]Invoice, error)
}

// Ledger は作成済み invoice の集計用ミラー（任意）。
// 失敗しても invoice 作成自体は成功扱い。
type Ledger interface {
	Record(ctx context.Context, tenantID string, inv Invoice) error
}

// Notifier は invoice 確定後の通知（レシートメール等、任意）。
type Notifier interface {
	NotifyInvoiceCreated(ctx context.Context, toEmail string, inv Invoice) error
}
