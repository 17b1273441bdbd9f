// internal/domain/common/repository_common.go
package common

import (
	"errors"
	"strings"
)

// ストア（Firestore など）の実装差分を吸収するための共通エラー。
// adapters/out 側はインフラ固有のエラーをこれらに寄せて返す。
var (
	// ErrNotFound はドキュメントが存在しない場合。
	ErrNotFound = errors.New("store: not found")

	// ErrAccessDenied は権限不足（セキュリティルール / IAM）で拒否された場合。
	ErrAccessDenied = errors.New("store: access denied")

	// ErrUnavailable はネットワーク断・タイムアウトなど一時的な失敗。
	ErrUnavailable = errors.New("store: unavailable")

	// ErrNotConfigured はクライアント（ストアのハンドル）が未初期化の場合。
	ErrNotConfigured = errors.New("store: not configured")
)

// IsAccessDenied は err が権限エラー由来かどうかを返します。
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsNotConfigured は err がストア未設定由来かどうかを返します。
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsNotFound は err が not found 由来かどうかを返します。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TenantPath はテナント配下のコレクションパス（businesses/{tenantId}/{collection}）を組み立てます。
// tenantID が空なら空文字を返す。
func TenantPath(tenantID, collection string) string {
	tid := strings.TrimSpace(tenantID)
	col := strings.Trim(strings.TrimSpace(collection), "/")
	if tid == "" || col == "" {
		return ""
	}
	return "businesses/" + tid + "/" + col
}
