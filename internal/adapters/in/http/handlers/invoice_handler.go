// internal/adapters/in/http/handlers/invoice_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"posbilling/internal/application/presenter"
	usecase "posbilling/internal/application/usecase"
	invoicedom "posbilling/internal/domain/invoice"
	"posbilling/internal/infra/logger"
)

// InvoiceHandler は invoice 生成と参照を担当します。
type InvoiceHandler struct {
	uc  *usecase.InvoiceUsecase
	log *zap.SugaredLogger
}

func NewInvoiceHandler(uc *usecase.InvoiceUsecase, log *zap.SugaredLogger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, log: logger.OrNop(log)}
}

type generateInvoiceRequest struct {
	CustomerName string `json:"customerName"`
}

// generateInvoiceResponse は成功・失敗どちらでも返す。
//   - invoiceId: 書き込まれた invoice（在庫不足時も書き込み済みなら入る）
//   - cart:      操作後のカート（成功時は空）
type generateInvoiceResponse struct {
	InvoiceID string              `json:"invoiceId,omitempty"`
	Invoice   *invoicedom.Invoice `json:"invoice,omitempty"`
	Cart      *presenter.CartView `json:"cart,omitempty"`
	Error     string              `json:"error,omitempty"`
	Message   string              `json:"message"`
}

// POST /api/billing/sessions/{sessionID}/invoice
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	res, err := h.uc.Generate(r.Context(), usecase.GenerateInvoiceInput{
		TenantID:     tenantID(r),
		SessionID:    chi.URLParam(r, "sessionID"),
		CustomerName: req.CustomerName,
		NotifyEmail:  usecase.OperatorEmailFromContext(r.Context()),
	})

	body := generateInvoiceResponse{
		InvoiceID: res.Invoice.ID,
		Cart:      renderSession(res.Session),
		Message:   res.Message,
	}
	if err != nil {
		status, code := statusFor(err)
		var shortfall *usecase.StockShortfallError
		if errors.As(err, &shortfall) {
			h.log.Warnf("[invoice] shortfall invoice=%s product=%s available=%d required=%d",
				shortfall.InvoiceID, shortfall.ProductID, shortfall.Available, shortfall.Required)
		} else {
			h.log.Errorf("[invoice] generate failed status=%d err=%v", status, err)
		}
		body.Error = code
		if body.Message == "" {
			body.Message = usecase.UserMessage(err)
		}
		writeJSON(w, status, body)
		return
	}

	inv := res.Invoice
	body.Invoice = &inv
	writeJSON(w, http.StatusCreated, body)
}

// GET /api/invoices/{invoiceID}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "invoiceID"))
	if id == "" {
		badRequest(w, "invalid id")
		return
	}

	inv, err := h.uc.GetByID(r.Context(), tenantID(r), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// GET /api/invoices?limit=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)

	items, err := h.uc.ListRecent(r.Context(), tenantID(r), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
