// internal/domain/cart/session.go
package cart

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidSession = errors.New("cart: invalid session")
)

// DefaultSessionTTL は無操作のまま保持するセッションの期間。
// ページ再読み込みは新しいセッションになるため、放置されたカートは期限切れで消える。
const DefaultSessionTTL = 12 * time.Hour

// Session は 1 回のページ表示分の請求セッション（カートと顧客名入力）。
//   - ID: uuid issued on session creation
//   - TenantID: Firebase uid of the operator (businesses/{tenantId})
type Session struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	Cart         Cart      `json:"cart"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// NewSession は空のセッションを作ります。
func NewSession(id, tenantID string, now time.Time, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &Session{
		ID:        strings.TrimSpace(id),
		TenantID:  strings.TrimSpace(tenantID),
		Cart:      Cart{Lines: []CartLine{}},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Touch は変更後に UpdatedAt / ExpiresAt を更新します。
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Expired は ExpiresAt を過ぎているかを返します。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// OwnedBy は tenantID がこのセッションの所有者かを返します。
func (s *Session) OwnedBy(tenantID string) bool {
	return s != nil && s.TenantID != "" && s.TenantID == strings.TrimSpace(tenantID)
}

// Reset はカートと顧客名をクリアします（invoice 確定後）。
func (s *Session) Reset() {
	s.Cart.Clear()
	s.CustomerName = ""
}

func (s *Session) validate() error {
	if s == nil {
		return ErrInvalidSession
	}
	if s.ID == "" || s.TenantID == "" {
		return ErrInvalidSession
	}
	if s.CreatedAt.IsZero() || s.ExpiresAt.Before(s.UpdatedAt) {
		return ErrInvalidSession
	}
	return nil
}
