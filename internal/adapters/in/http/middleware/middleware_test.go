package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "posbilling/internal/application/usecase"
)

type fakeVerifier struct {
	tokens map[string]*fbauth.Token
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if t, ok := f.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("bad token")
}

func captureHandler(tenant, email *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*tenant = usecase.TenantIDFromContext(r.Context())
		*email = usecase.OperatorEmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*fbauth.Token{
		"good":    {UID: "tenant-1", Claims: map[string]any{"email": "owner@example.com"}},
		"noemail": {UID: "tenant-2", Claims: map[string]any{}},
		"nouid":   {UID: " "},
	}}
	mw := &AuthMiddleware{Verifier: verifier}

	cases := []struct {
		name   string
		header string
		status int
		tenant string
		email  string
	}{
		{"missing header", "", http.StatusUnauthorized, "", ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "", ""},
		{"empty bearer", "Bearer  ", http.StatusUnauthorized, "", ""},
		{"invalid", "Bearer nope", http.StatusUnauthorized, "", ""},
		{"no uid", "Bearer nouid", http.StatusUnauthorized, "", ""},
		{"ok", "Bearer good", http.StatusNoContent, "tenant-1", "owner@example.com"},
		{"ok without email", "Bearer noemail", http.StatusNoContent, "tenant-2", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var tenant, email string
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.Handler(captureHandler(&tenant, &email)).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.tenant, tenant)
			assert.Equal(t, tc.email, email)
		})
	}
}

func TestAuthMiddleware_NotInitialized(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	(&AuthMiddleware{}).Handler(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"https://pos.example.com"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://pos.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
