// internal/adapters/out/memory/session_store_mem.go
package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	cartdom "posbilling/internal/domain/cart"
	common "posbilling/internal/domain/common"
)

// SessionStoreMem はプロセス内の billing session ストア（REDIS_ADDR 未設定時 / ローカル用）。
// 値はコピーで保持するので、呼び出し側の変更は Save するまで反映されない。
type SessionStoreMem struct {
	mu  sync.RWMutex
	m   map[string][]byte
	now func() time.Time
}

func NewSessionStoreMem() *SessionStoreMem {
	return &SessionStoreMem{
		m:   map[string][]byte{},
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ cartdom.SessionStore = (*SessionStoreMem)(nil)

func (s *SessionStoreMem) Get(_ context.Context, sessionID string) (*cartdom.Session, error) {
	id := strings.TrimSpace(sessionID)

	s.mu.RLock()
	raw, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, common.ErrNotFound
	}

	var sess cartdom.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.m, id)
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionStoreMem) Save(_ context.Context, sess *cartdom.Session) error {
	if sess == nil || strings.TrimSpace(sess.ID) == "" {
		return cartdom.ErrInvalidSession
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = raw
	s.sweepLocked()
	return nil
}

func (s *SessionStoreMem) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, strings.TrimSpace(sessionID))
	return nil
}

// Len は保持している session 数（期限切れ含む）。
func (s *SessionStoreMem) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// sweepLocked は期限切れ session を捨てる。Save のたびに呼ぶ。
func (s *SessionStoreMem) sweepLocked() {
	now := s.now()
	for id, raw := range s.m {
		var probe struct {
			ExpiresAt time.Time `json:"expiresAt"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		if !probe.ExpiresAt.IsZero() && now.After(probe.ExpiresAt) {
			delete(s.m, id)
		}
	}
}
