// internal/adapters/out/firestore/common/values.go
package common

import (
	"strings"
	"time"
)

// AsString は string 以外を空文字として扱います。
func AsString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// AsStringSlice は []any / []string を空要素を除いた []string にします。
func AsStringSlice(v any) []string {
	out := []string{}
	switch xs := v.(type) {
	case []string:
		for _, s := range xs {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, x := range xs {
			if s := AsString(x); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// AsTime は time.Time（Firestore timestamp）を UTC で返します。
func AsTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}
