// internal/domain/cart/repository_port.go
package cart

import "context"

// SessionStore は請求セッションの永続化ポートです。
//
// 実装:
//   - memory: 単一インスタンス / ローカル開発
//   - redis:  インスタンス間で共有、TTL = Session.ExpiresAt
//
// Get は存在しない・期限切れのセッションに common.ErrNotFound を返す。
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}
