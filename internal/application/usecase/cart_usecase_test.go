package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "posbilling/internal/domain/common"
	productdom "posbilling/internal/domain/product"
)

func newTestCartUsecase(t *testing.T, repo *fakeProductRepo) (*CartUsecase, *fakeSessionStore, *fixedClock) {
	t.Helper()
	store := newFakeSessionStore()
	clock := &fixedClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	uc := NewCartUsecaseWithClock(store, repo, prefixResolver{}, time.Hour, nil, clock)
	return uc, store, clock
}

func TestCartUsecase_StartAndGet(t *testing.T) {
	uc, _, _ := newTestCartUsecase(t, newFakeProductRepo())
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.True(t, s.Cart.IsEmpty())

	got, err := uc.Get(ctx, "tenant", s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = uc.Get(ctx, "other-tenant", s.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = uc.Start(ctx, "")
	assert.ErrorIs(t, err, ErrTenantMissing)
}

func TestCartUsecase_Expired(t *testing.T) {
	uc, _, clock := newTestCartUsecase(t, newFakeProductRepo())
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Hour)
	_, err = uc.Get(ctx, "tenant", s.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCartUsecase_AddTwice(t *testing.T) {
	repo := newFakeProductRepo(productdom.Product{ID: "p1", Name: "Tea", Price: 75, SKU: "T1", Image: []string{"tea.png"}})
	uc, _, _ := newTestCartUsecase(t, repo)
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)

	_, added, err := uc.AddOrIncrement(ctx, "tenant", s.ID, "p1")
	require.NoError(t, err)
	assert.True(t, added)

	s, added, err = uc.AddOrIncrement(ctx, "tenant", s.ID, "p1")
	require.NoError(t, err)
	assert.True(t, added)

	require.Equal(t, 1, s.Cart.Len())
	l := s.Cart.Lines[0]
	assert.Equal(t, 2, l.Quantity)
	assert.Equal(t, 75.0, l.UnitPrice)
	assert.Equal(t, "https://cdn.test/tea.png", l.Thumbnail)
	assert.Equal(t, 150.0, s.Cart.Subtotal())
}

func TestCartUsecase_AddUnknownProduct(t *testing.T) {
	uc, _, _ := newTestCartUsecase(t, newFakeProductRepo())
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)

	s, added, err := uc.AddOrIncrement(ctx, "tenant", s.ID, "ghost")
	require.NoError(t, err)
	assert.False(t, added)
	assert.True(t, s.Cart.IsEmpty())
}

func TestCartUsecase_AddAccessDenied(t *testing.T) {
	repo := newFakeProductRepo(productdom.Product{ID: "p1", Price: 1})
	repo.getErr["p1"] = common.ErrAccessDenied
	uc, _, _ := newTestCartUsecase(t, repo)
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)

	_, added, err := uc.AddOrIncrement(ctx, "tenant", s.ID, "p1")
	assert.False(t, added)
	assert.True(t, common.IsAccessDenied(err))

	got, err := uc.Get(ctx, "tenant", s.ID)
	require.NoError(t, err)
	assert.True(t, got.Cart.IsEmpty())
}

func TestCartUsecase_SetQuantityAndRemove(t *testing.T) {
	repo := newFakeProductRepo(
		productdom.Product{ID: "p1", Price: 10},
		productdom.Product{ID: "p2", Price: 5},
	)
	uc, _, _ := newTestCartUsecase(t, repo)
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)
	_, _, err = uc.AddOrIncrement(ctx, "tenant", s.ID, "p1")
	require.NoError(t, err)
	_, _, err = uc.AddOrIncrement(ctx, "tenant", s.ID, "p2")
	require.NoError(t, err)

	for _, raw := range []string{"0", "-3", "abc"} {
		s, err = uc.SetQuantity(ctx, "tenant", s.ID, "p1", raw)
		require.NoError(t, err)
		require.Equal(t, "p1", s.Cart.Lines[0].ProductID)
		assert.Equal(t, 1, s.Cart.Lines[0].Quantity, "raw %q", raw)
	}

	s, err = uc.SetQuantity(ctx, "tenant", s.ID, "p1", "4")
	require.NoError(t, err)
	assert.Equal(t, 45.0, s.Cart.Subtotal())

	s, err = uc.Remove(ctx, "tenant", s.ID, "nope")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cart.Len())

	s, err = uc.Remove(ctx, "tenant", s.ID, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, s.Cart.Len())
	assert.Equal(t, "p2", s.Cart.Lines[0].ProductID)
}

func TestCartUsecase_ConcurrentAdds(t *testing.T) {
	repo := newFakeProductRepo(productdom.Product{ID: "p1", Price: 1})
	uc, _, _ := newTestCartUsecase(t, repo)
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = uc.AddOrIncrement(ctx, "tenant", s.ID, "p1")
		}()
	}
	wg.Wait()

	got, err := uc.Get(ctx, "tenant", s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Cart.Len())
	assert.Equal(t, 20, got.Cart.Lines[0].Quantity)
}

func TestCartUsecase_End(t *testing.T) {
	uc, store, _ := newTestCartUsecase(t, newFakeProductRepo())
	ctx := context.Background()

	s, err := uc.Start(ctx, "tenant")
	require.NoError(t, err)
	require.NoError(t, uc.End(ctx, "tenant", s.ID))
	assert.Empty(t, store.m)

	require.NoError(t, uc.End(ctx, "tenant", s.ID))
}
