package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "posbilling/internal/domain/cart"
	common "posbilling/internal/domain/common"
)

func setupStore(t *testing.T) (*SessionStoreRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStoreRedis(client), mr
}

func newSession(t *testing.T, ttl time.Duration) *cartdom.Session {
	t.Helper()
	s, err := cartdom.NewSession("sid-1", "tenant", time.Now().UTC(), ttl)
	require.NoError(t, err)
	require.NoError(t, s.Cart.AddOrIncrement(cartdom.CartLine{ProductID: "p1", Name: "Tea", UnitPrice: 75}))
	s.CustomerName = "Asha"
	return s
}

func TestSessionStoreRedis_SaveGet(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()
	s := newSession(t, time.Hour)

	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("billing:session:sid-1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("billing:session:sid-1").Seconds(), 5)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tenant", got.TenantID)
	assert.Equal(t, "Asha", got.CustomerName)
	require.Equal(t, 1, got.Cart.Len())
	assert.Equal(t, 75.0, got.Cart.Lines[0].UnitPrice)
}

func TestSessionStoreRedis_Missing(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSessionStoreRedis_ExpiresWithTTL(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession(t, time.Minute)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSessionStoreRedis_Delete(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession(t, time.Hour)))
	require.NoError(t, store.Delete(ctx, "sid-1"))
	assert.False(t, mr.Exists("billing:session:sid-1"))

	require.NoError(t, store.Delete(ctx, "sid-1"))
}

func TestSessionStoreRedis_ConnectionError(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "sid-1")
	assert.ErrorIs(t, err, common.ErrUnavailable)
}
