// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	usecase "posbilling/internal/application/usecase"
	"posbilling/internal/infra/logger"
)

// TokenVerifier は Firebase ID トークンの検証部分（*fbauth.Client が満たす）。
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

var _ TokenVerifier = (*fbauth.Client)(nil)

// AuthMiddleware は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、uid を tenantId として context に詰めて次のハンドラへ渡す。
// email claim があればレシート送信先として併せて格納する。
type AuthMiddleware struct {
	Verifier TokenVerifier
	Log      *zap.SugaredLogger
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.OrNop(m.Log)

		// 依存チェック
		if m.Verifier == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "auth middleware not initialized")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized: missing bearer token")
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized: empty bearer token")
			return
		}

		// Firebase ID トークン検証
		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			log.Warnf("[AuthMiddleware] invalid token path=%s err=%v", r.URL.Path, err)
			writeJSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			writeJSONError(w, http.StatusUnauthorized, "invalid uid in token")
			return
		}

		ctx := usecase.WithTenantID(r.Context(), uid)

		emailStr := ""
		if e, ok := token.Claims["email"].(string); ok {
			emailStr = strings.TrimSpace(e)
			ctx = usecase.WithOperatorEmail(ctx, emailStr)
		}

		log.Debugf("[AuthMiddleware] path=%s uid=%s email=%s", r.URL.Path, uid, emailStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
