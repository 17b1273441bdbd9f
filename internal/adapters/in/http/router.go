// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"posbilling/internal/adapters/in/http/handlers"
	"posbilling/internal/adapters/in/http/middleware"
	usecase "posbilling/internal/application/usecase"
)

// RouterDeps はコンテナから注入される usecase などの依存をまとめたもの。
type RouterDeps struct {
	CatalogUC *usecase.CatalogUsecase
	CartUC    *usecase.CartUsecase
	InvoiceUC *usecase.InvoiceUsecase

	Auth           *middleware.AuthMiddleware
	AllowedOrigins []string
	PageTitle      string

	// Ready は /readyz 用（nil なら常に ok）
	Ready func(r *http.Request) error

	Log *zap.SugaredLogger
}

// NewRouter は請求画面用の HTTP ルーティングを組み立てます。
//
// チェーン順: CORS（外側）→ Recover → RequestID/RealIP → アクセスログ → Timeout。
// panic 時の 500 にも CORS ヘッダを付けるため CORS を一番外に置く。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Recover(deps.Log))
	r.Use(chimw.RequestID, chimw.RealIP)
	r.Use(middleware.RequestLog(deps.Log))
	r.Use(chimw.Timeout(30 * time.Second))

	// ヘルスチェック（常に有効）
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(req); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})

	r.Method(http.MethodGet, "/billing", handlers.NewBillingPageHandler(deps.PageTitle, "/api"))

	r.Route("/api", func(api chi.Router) {
		if deps.Auth != nil {
			api.Use(deps.Auth.Handler)
		}

		if deps.CatalogUC != nil {
			catalog := handlers.NewCatalogHandler(deps.CatalogUC, deps.Log)
			api.Get("/products", catalog.List)
		}

		if deps.CartUC != nil {
			cart := handlers.NewCartHandler(deps.CartUC, deps.Log)
			api.Post("/billing/sessions", cart.StartSession)
			api.Route("/billing/sessions/{sessionID}", func(s chi.Router) {
				s.Delete("/", cart.EndSession)
				s.Get("/cart", cart.Get)
				s.Post("/cart/items", cart.AddItem)
				s.Put("/cart/items/{productID}", cart.SetQuantity)
				s.Delete("/cart/items/{productID}", cart.RemoveItem)

				if deps.InvoiceUC != nil {
					inv := handlers.NewInvoiceHandler(deps.InvoiceUC, deps.Log)
					s.Post("/invoice", inv.Generate)
				}
			})
		}

		if deps.InvoiceUC != nil {
			inv := handlers.NewInvoiceHandler(deps.InvoiceUC, deps.Log)
			api.Get("/invoices", inv.List)
			api.Get("/invoices/{invoiceID}", inv.Get)
		}
	})

	return r
}
