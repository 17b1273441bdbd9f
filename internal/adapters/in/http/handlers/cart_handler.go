// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"posbilling/internal/application/presenter"
	usecase "posbilling/internal/application/usecase"
	cartdom "posbilling/internal/domain/cart"
	"posbilling/internal/infra/logger"
)

// CartHandler は billing session のカート操作を担当します。
// どの操作も描画済みの CartView（表全体）を返す。
type CartHandler struct {
	uc  *usecase.CartUsecase
	log *zap.SugaredLogger
}

func NewCartHandler(uc *usecase.CartUsecase, log *zap.SugaredLogger) *CartHandler {
	return &CartHandler{uc: uc, log: logger.OrNop(log)}
}

type cartResponse struct {
	presenter.CartView
	Added   *bool  `json:"added,omitempty"`
	Message string `json:"message,omitempty"`
}

// POST /api/billing/sessions
func (h *CartHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Start(r.Context(), tenantID(r))
	if err != nil {
		h.log.Errorf("[cart] start session failed err=%v", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cartResponse{CartView: presenter.RenderCart(s)})
}

// DELETE /api/billing/sessions/{sessionID}
func (h *CartHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.End(r.Context(), tenantID(r), chi.URLParam(r, "sessionID")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/billing/sessions/{sessionID}/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Get(r.Context(), tenantID(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{CartView: presenter.RenderCart(s)})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

// POST /api/billing/sessions/{sessionID}/cart/items
// 存在しない productId は no-op（added=false, 200）。
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		badRequest(w, "productId is required")
		return
	}

	s, added, err := h.uc.AddOrIncrement(r.Context(), tenantID(r), chi.URLParam(r, "sessionID"), req.ProductID)
	if err != nil {
		h.log.Warnf("[cart] add failed product=%s err=%v", req.ProductID, err)
		writeErr(w, err)
		return
	}

	res := cartResponse{CartView: presenter.RenderCart(s), Added: &added}
	if !added {
		res.Message = "Product not found"
	}
	writeJSON(w, http.StatusOK, res)
}

// quantity は数値でも文字列でも受ける（入力欄の値をそのまま送れるように）。
type setQuantityRequest struct {
	Quantity any `json:"quantity"`
}

// PUT /api/billing/sessions/{sessionID}/cart/items/{productID}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}

	raw := ""
	switch v := req.Quantity.(type) {
	case string:
		raw = v
	case float64:
		raw = fmt.Sprintf("%v", v)
	}

	s, err := h.uc.SetQuantity(r.Context(), tenantID(r), chi.URLParam(r, "sessionID"), chi.URLParam(r, "productID"), raw)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{CartView: presenter.RenderCart(s)})
}

// DELETE /api/billing/sessions/{sessionID}/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Remove(r.Context(), tenantID(r), chi.URLParam(r, "sessionID"), chi.URLParam(r, "productID"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{CartView: presenter.RenderCart(s)})
}

func renderSession(s *cartdom.Session) *presenter.CartView {
	if s == nil {
		return nil
	}
	v := presenter.RenderCart(s)
	return &v
}
