// internal/adapters/in/http/middleware/request_log.go
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"posbilling/internal/infra/logger"
)

// RequestLog は 1 リクエスト 1 行のアクセスログを zap に出します。
func RequestLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	l := logger.OrNop(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			l.Infow("[http] request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestId", chimw.GetReqID(r.Context()),
			)
		})
	}
}
