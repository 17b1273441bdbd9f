// internal/application/usecase/errors.go
package usecase

import (
	"errors"
	"fmt"

	common "posbilling/internal/domain/common"
)

var (
	ErrNotConfigured = errors.New("usecase: dependency is not configured")
	ErrTenantMissing = errors.New("usecase: tenant id is missing")

	ErrCatalogConfig = errors.New("catalog: store handle or tenant id is missing")
	ErrCatalogFetch  = errors.New("catalog: failed to fetch products")

	ErrSessionInvalidArgument = errors.New("cart_usecase: invalid argument")

	ErrCartEmpty            = errors.New("invoice: cart is empty")
	ErrCustomerNameRequired = errors.New("invoice: customer name is required")
	ErrStockShortfall       = errors.New("invoice: not enough stock")
	ErrInvoiceFailed        = errors.New("invoice: failed to generate invoice")
)

// 画面に出すメッセージ
const (
	MsgCartEmpty            = "Cart is empty"
	MsgCustomerNameRequired = "Please enter customer name"
	MsgInvoiceFailed        = "Failed to generate invoice. Please try again."
	MsgInvoiceCreated       = "Invoice generated successfully"
	MsgAccessDenied         = "Access denied"
	MsgCatalogUnavailable   = "Failed to load products"
	MsgNotFound             = "Not found. Please reload the page."
	MsgSignInRequired       = "Please sign in"
	MsgInvalidRequest       = "Invalid request"
	MsgUnexpected           = "Something went wrong. Please try again."
)

// StockShortfallError は販売数量が在庫を上回ったときに返ります。
// この時点で invoice ドキュメントは書き込み済み。
type StockShortfallError struct {
	InvoiceID   string
	ProductID   string
	ProductName string
	Available   int
	Required    int
}

func (e *StockShortfallError) Error() string {
	return fmt.Sprintf("Not enough stock for %s (available: %d, required: %d)", e.ProductName, e.Available, e.Required)
}

func (e *StockShortfallError) Unwrap() error { return ErrStockShortfall }

// UserMessage はエラーをオペレーター向けの表示メッセージに変換します。
func UserMessage(err error) string {
	var shortfall *StockShortfallError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &shortfall):
		return shortfall.Error()
	case errors.Is(err, ErrCartEmpty):
		return MsgCartEmpty
	case errors.Is(err, ErrCustomerNameRequired):
		return MsgCustomerNameRequired
	case errors.Is(err, ErrInvoiceFailed):
		return MsgInvoiceFailed
	case errors.Is(err, common.ErrAccessDenied):
		return MsgAccessDenied
	case errors.Is(err, ErrCatalogFetch), errors.Is(err, ErrCatalogConfig):
		return MsgCatalogUnavailable
	case errors.Is(err, common.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrTenantMissing):
		return MsgSignInRequired
	case errors.Is(err, ErrSessionInvalidArgument):
		return MsgInvalidRequest
	default:
		return MsgUnexpected
	}
}
