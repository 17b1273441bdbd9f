// internal/application/usecase/invoice_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	cartdom "posbilling/internal/domain/cart"
	invoicedom "posbilling/internal/domain/invoice"
	productdom "posbilling/internal/domain/product"
	"posbilling/internal/infra/logger"
)

const (
	defaultInvoiceListLimit = 20
	maxInvoiceListLimit     = 100
)

// InvoiceUsecase は billing session のカートから invoice を作り、在庫を減算します。
//
// 書き込み順（アトミックではない）:
//  1. invoice ドキュメントを追加
//  2. 明細ごとに 商品のライブ読み取り → 在庫チェック → stockQuantity 更新（1 件ずつ順番に）
//
// 在庫不足でループは止まる。それまでの減算と invoice はそのまま残る。
// 同じ商品への同時会計は両方ともチェックを通り得る。
type InvoiceUsecase struct {
	invoices invoicedom.Repository
	products productdom.Repository
	carts    *CartUsecase

	// 任意
	ledger   invoicedom.Ledger
	notifier invoicedom.Notifier

	now func() time.Time
	log *zap.SugaredLogger
}

func NewInvoiceUsecase(
	invoices invoicedom.Repository,
	products productdom.Repository,
	carts *CartUsecase,
	log *zap.SugaredLogger,
) *InvoiceUsecase {
	return &InvoiceUsecase{
		invoices: invoices,
		products: products,
		carts:    carts,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.OrNop(log),
	}
}

// WithLedger は売上台帳（任意）を設定します。
func (uc *InvoiceUsecase) WithLedger(l invoicedom.Ledger) *InvoiceUsecase {
	uc.ledger = l
	return uc
}

// WithNotifier はレシート通知（任意）を設定します。
func (uc *InvoiceUsecase) WithNotifier(n invoicedom.Notifier) *InvoiceUsecase {
	uc.notifier = n
	return uc
}

// GenerateInvoiceInput は「invoice 生成」操作の入力。
type GenerateInvoiceInput struct {
	TenantID     string
	SessionID    string
	CustomerName string

	// NotifyEmail は任意。指定があれば完全成功後にレシートを送る。
	NotifyEmail string
}

// GenerateInvoiceResult は操作後に画面が必要とするもの。
//   - Invoice: 保存した invoice（何も書いていなければゼロ値）
//   - Session: 操作後のセッション（カートが空になるのは完全成功時のみ）
type GenerateInvoiceResult struct {
	Invoice invoicedom.Invoice
	Session *cartdom.Session
	Message string
}

// Generate はカートと顧客名を検証し、invoice を追加してから明細ごとに在庫を減算します。
//
// エラー:
//   - ErrCartEmpty / ErrCustomerNameRequired: 何も書き込まない
//   - *StockShortfallError: invoice は書き込み済み。最初の不足で停止、カートは残す
//   - ErrInvoiceFailed（原因を wrap）: 書き込み途中のストア失敗、カートは残す
//
// 在庫減算まで終わった後のセッション保存失敗は成功として返し、セッションは削除を試みる。
func (uc *InvoiceUsecase) Generate(ctx context.Context, in GenerateInvoiceInput) (GenerateInvoiceResult, error) {
	if uc == nil || uc.invoices == nil || uc.products == nil || uc.carts == nil {
		return GenerateInvoiceResult{}, ErrNotConfigured
	}
	tid := strings.TrimSpace(in.TenantID)
	if tid == "" {
		return GenerateInvoiceResult{}, ErrTenantMissing
	}

	var (
		saved     invoicedom.Invoice
		committed *cartdom.Session
	)

	s, err := uc.carts.Mutate(ctx, tid, in.SessionID, func(s *cartdom.Session) error {
		// ---- 検証（書き込み前） ----
		if s.Cart.IsEmpty() {
			return ErrCartEmpty
		}
		name := strings.TrimSpace(in.CustomerName)
		if name == "" {
			return ErrCustomerNameRequired
		}

		// 1) スナップショット
		inv, err := invoicedom.NewFromCart(name, s.Cart.Snapshot(), uc.now())
		if err != nil {
			return err
		}

		// 2) invoice 追加
		created, err := uc.invoices.Create(ctx, tid, inv)
		if err != nil {
			uc.log.Errorf("[invoice_uc] create invoice failed tenant=%s session=%s err=%v", tid, s.ID, err)
			return fmt.Errorf("%w: create invoice: %w", ErrInvoiceFailed, err)
		}
		saved = created
		uc.log.Infof("[invoice_uc] invoice created tenant=%s invoice=%s items=%d grandTotal=%.2f",
			tid, created.ID, len(created.Items), created.GrandTotal,
		)
		uc.recordLedger(ctx, tid, created)

		// 3) 在庫減算（1 商品ずつ）
		for _, it := range created.Items {
			p, err := uc.products.GetByID(ctx, tid, it.ProductID)
			if err != nil {
				uc.log.Errorf("[invoice_uc] read product failed tenant=%s invoice=%s product=%s err=%v",
					tid, created.ID, it.ProductID, err,
				)
				return fmt.Errorf("%w: read product %s: %w", ErrInvoiceFailed, it.ProductID, err)
			}

			newStock := p.StockAfterSale(it.Quantity)
			if newStock < 0 {
				uc.log.Warnf("[invoice_uc] stock shortfall tenant=%s invoice=%s product=%s available=%d required=%d",
					tid, created.ID, p.ID, p.StockQuantity, it.Quantity,
				)
				return &StockShortfallError{
					InvoiceID:   created.ID,
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.StockQuantity,
					Required:    it.Quantity,
				}
			}

			if err := uc.products.UpdateStockQuantity(ctx, tid, p.ID, newStock); err != nil {
				uc.log.Errorf("[invoice_uc] update stock failed tenant=%s invoice=%s product=%s err=%v",
					tid, created.ID, p.ID, err,
				)
				return fmt.Errorf("%w: update stock %s: %w", ErrInvoiceFailed, p.ID, err)
			}
		}

		// 4) 完全成功: カートと顧客名をクリア
		s.Reset()
		committed = s
		return nil
	})

	if err != nil && committed != nil {
		// invoice と在庫は確定済み
		uc.log.Errorf("[invoice_uc] session save failed after commit tenant=%s session=%s invoice=%s err=%v",
			tid, committed.ID, saved.ID, err,
		)
		if derr := uc.carts.sessions.Delete(ctx, committed.ID); derr != nil {
			uc.log.Errorf("[invoice_uc] session delete failed session=%s err=%v", committed.ID, derr)
		}
		s, err = committed, nil
	}

	res := GenerateInvoiceResult{Invoice: saved, Session: s}
	if err != nil {
		res.Message = UserMessage(err)
		return res, err
	}

	res.Message = MsgInvoiceCreated
	uc.notify(ctx, in.NotifyEmail, saved)
	return res, nil
}

// GetByID はテナントの invoice を 1 件返します。
func (uc *InvoiceUsecase) GetByID(ctx context.Context, tenantID, invoiceID string) (invoicedom.Invoice, error) {
	if uc == nil || uc.invoices == nil {
		return invoicedom.Invoice{}, ErrNotConfigured
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return invoicedom.Invoice{}, ErrTenantMissing
	}
	return uc.invoices.GetByID(ctx, tid, strings.TrimSpace(invoiceID))
}

// ListRecent は新しい順に invoice を返します（limit は既定 20、上限 100）。
func (uc *InvoiceUsecase) ListRecent(ctx context.Context, tenantID string, limit int) ([]invoicedom.Invoice, error) {
	if uc == nil || uc.invoices == nil {
		return nil, ErrNotConfigured
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return nil, ErrTenantMissing
	}
	if limit <= 0 {
		limit = defaultInvoiceListLimit
	}
	if limit > maxInvoiceListLimit {
		limit = maxInvoiceListLimit
	}
	return uc.invoices.ListRecent(ctx, tid, limit)
}

func (uc *InvoiceUsecase) recordLedger(ctx context.Context, tenantID string, inv invoicedom.Invoice) {
	if uc.ledger == nil {
		return
	}
	if err := uc.ledger.Record(ctx, tenantID, inv); err != nil {
		uc.log.Warnf("[invoice_uc] WARN: ledger record failed tenant=%s invoice=%s err=%v", tenantID, inv.ID, err)
	}
}

func (uc *InvoiceUsecase) notify(ctx context.Context, email string, inv invoicedom.Invoice) {
	to := strings.TrimSpace(email)
	if uc.notifier == nil || to == "" {
		return
	}
	if err := uc.notifier.NotifyInvoiceCreated(ctx, to, inv); err != nil {
		uc.log.Warnf("[invoice_uc] WARN: receipt mail failed invoice=%s to=%s err=%v", inv.ID, to, err)
	}
}
