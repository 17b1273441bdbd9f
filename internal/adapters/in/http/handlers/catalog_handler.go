// internal/adapters/in/http/handlers/catalog_handler.go
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	usecase "posbilling/internal/application/usecase"
	productdom "posbilling/internal/domain/product"
	"posbilling/internal/infra/logger"
)

// CatalogHandler は検索ピッカー用の商品一覧を返します。
type CatalogHandler struct {
	uc  *usecase.CatalogUsecase
	log *zap.SugaredLogger
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, log *zap.SugaredLogger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: logger.OrNop(log)}
}

type catalogResponse struct {
	Entries []productdom.CatalogEntry `json:"entries"`
	Error   string                    `json:"error,omitempty"`
	Message string                    `json:"message,omitempty"`
}

// GET /api/products?q=&refresh=1
// refresh=1 はキャッシュを使わずストアから読み直す（画面初期化時）。
// 失敗時も entries は空配列で返す（ピッカーは空のまま表示）。
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		entries []productdom.CatalogEntry
		err     error
	)
	if q.Get("refresh") == "1" {
		entries, err = h.uc.Load(r.Context(), tenantID(r))
		entries = productdom.FilterEntries(entries, q.Get("q"))
	} else {
		entries, err = h.uc.Search(r.Context(), tenantID(r), q.Get("q"))
	}
	if err != nil {
		status, code := statusFor(err)
		h.log.Warnf("[catalog] list failed status=%d code=%s err=%v", status, code, err)
		writeJSON(w, status, catalogResponse{
			Entries: []productdom.CatalogEntry{},
			Error:   code,
			Message: usecase.UserMessage(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Entries: entries})
}
