// internal/application/usecase/context.go
package usecase

import (
	"context"
	"strings"
)

// usecase 層で使う context key
type ctxKey string

const (
	ctxKeyTenantID      ctxKey = "tenantId"
	ctxKeyOperatorEmail ctxKey = "operatorEmail"
)

// ミドルウェアなど外側から tenantId（= Firebase uid）を注入するためのヘルパー
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyTenantID, tid)
}

// usecase 内部で tenantId を取り出すためのヘルパー
func TenantIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyTenantID)
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// WithOperatorEmail はログイン中オペレーターの email を注入します（レシート送信先）。
func WithOperatorEmail(ctx context.Context, email string) context.Context {
	e := strings.TrimSpace(email)
	if e == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyOperatorEmail, e)
}

func OperatorEmailFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyOperatorEmail).(string)
	return strings.TrimSpace(s)
}
