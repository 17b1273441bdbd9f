// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	usecase "posbilling/internal/application/usecase"
	common "posbilling/internal/domain/common"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody は全 API 共通のエラー形。
//   - error:   機械向けコード
//   - message: 画面にそのまま出せる文言
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeErr(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, errorBody{Error: code, Message: usecase.UserMessage(err)})
}

// statusFor は usecase / domain のエラーを HTTP ステータスとコードに変換します。
// invoice の失敗系は原因（not found / access denied）より先に判定する。
func statusFor(err error) (int, string) {
	var shortfall *usecase.StockShortfallError
	switch {
	case errors.As(err, &shortfall):
		return http.StatusConflict, "stock_shortfall"
	case errors.Is(err, usecase.ErrCartEmpty):
		return http.StatusUnprocessableEntity, "cart_empty"
	case errors.Is(err, usecase.ErrCustomerNameRequired):
		return http.StatusUnprocessableEntity, "customer_name_required"
	case errors.Is(err, usecase.ErrInvoiceFailed):
		return http.StatusBadGateway, "invoice_failed"
	case errors.Is(err, usecase.ErrTenantMissing):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, usecase.ErrSessionInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden, "access_denied"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, usecase.ErrCatalogFetch):
		return http.StatusBadGateway, "catalog_fetch_failed"
	case errors.Is(err, usecase.ErrCatalogConfig), errors.Is(err, usecase.ErrNotConfigured),
		errors.Is(err, common.ErrNotConfigured):
		return http.StatusInternalServerError, "not_configured"
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeJSON は空ボディを許容します（v はゼロ値のまま）。
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Message: msg})
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func tenantID(r *http.Request) string {
	return usecase.TenantIDFromContext(r.Context())
}
