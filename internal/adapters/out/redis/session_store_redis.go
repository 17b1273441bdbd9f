// internal/adapters/out/redis/session_store_redis.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	cartdom "posbilling/internal/domain/cart"
	common "posbilling/internal/domain/common"
)

// SessionStoreRedis は billing session を JSON で Redis に保存します。
// キーの TTL は Session.ExpiresAt まで（保存のたびに延長）。
type SessionStoreRedis struct {
	client *goredis.Client
	now    func() time.Time
}

func NewSessionStoreRedis(client *goredis.Client) *SessionStoreRedis {
	return &SessionStoreRedis{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ cartdom.SessionStore = (*SessionStoreRedis)(nil)

func (r *SessionStoreRedis) Get(ctx context.Context, sessionID string) (*cartdom.Session, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("redis client is nil")
	}
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, common.ErrNotFound
	}

	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w: %w", common.ErrUnavailable, err)
	}

	var s cartdom.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *SessionStoreRedis) Save(ctx context.Context, s *cartdom.Session) error {
	if r == nil || r.client == nil {
		return errors.New("redis client is nil")
	}
	if s == nil || strings.TrimSpace(s.ID) == "" {
		return cartdom.ErrInvalidSession
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		// 期限切れのものは保存しない
		return r.Delete(ctx, s.ID)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w: %w", common.ErrUnavailable, err)
	}
	return nil
}

func (r *SessionStoreRedis) Delete(ctx context.Context, sessionID string) error {
	if r == nil || r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Del(ctx, sessionKey(strings.TrimSpace(sessionID))).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("billing:session:%s", id)
}
