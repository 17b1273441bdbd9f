// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"posbilling/internal/infra/logger"
)

// Recover は panic を 500 の JSON に変換します。
// CORS は外側で付ける（チェーン順に注意）。
func Recover(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	l := logger.OrNop(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					l.Errorf("[recover] PANIC: %v path=%s\n%s", rec, r.URL.Path, string(debug.Stack()))
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
