// internal/adapters/in/http/handlers/billing_page_handler.go
package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"posbilling/internal/application/presenter"
	cartdom "posbilling/internal/domain/cart"
)

//go:embed templates/billing.html
var templatesFS embed.FS

var billingTmpl = template.Must(template.ParseFS(templatesFS, "templates/billing.html"))

// BillingPageHandler は課金画面のシェルを返します（データは /api から取得）。
// DOM の id（#productSearch, #cartItems など）はフロント側との固定の取り決め。
type BillingPageHandler struct {
	Title   string
	APIBase string
}

func NewBillingPageHandler(title, apiBase string) *BillingPageHandler {
	if title == "" {
		title = "Billing"
	}
	if apiBase == "" {
		apiBase = "/api"
	}
	return &BillingPageHandler{Title: title, APIBase: apiBase}
}

func (h *BillingPageHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	empty := presenter.RenderCart(&cartdom.Session{})

	var buf bytes.Buffer
	err := billingTmpl.Execute(&buf, map[string]any{
		"Title":     h.Title,
		"APIBase":   h.APIBase,
		"EmptyRow":  template.HTML(empty.RowsHTML),
		"ZeroTotal": empty.GrandTotalText,
	})
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
