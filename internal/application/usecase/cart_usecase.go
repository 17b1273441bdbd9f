// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartdom "posbilling/internal/domain/cart"
	common "posbilling/internal/domain/common"
	productdom "posbilling/internal/domain/product"
	"posbilling/internal/infra/logger"
)

// Clock は現在時刻を返します（テスト用に差し替え可能）。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// CartUsecase は billing session のカート操作をまとめます。
//
// AddOrIncrement は毎回商品をライブで読む（カタログのキャッシュは使わない）。
// 同じセッションへの変更は sessionLocks でプロセス内直列化する。
type CartUsecase struct {
	sessions cartdom.SessionStore
	products productdom.Repository
	thumbs   ThumbnailResolver
	clock    Clock
	ttl      time.Duration
	newID    func() string
	locks    *sessionLocks
	log      *zap.SugaredLogger
}

func NewCartUsecase(
	sessions cartdom.SessionStore,
	products productdom.Repository,
	thumbs ThumbnailResolver,
	ttl time.Duration,
	log *zap.SugaredLogger,
) *CartUsecase {
	return NewCartUsecaseWithClock(sessions, products, thumbs, ttl, log, systemClock{})
}

// NewCartUsecaseWithClock はテスト用に Clock を指定できるコンストラクタ。
func NewCartUsecaseWithClock(
	sessions cartdom.SessionStore,
	products productdom.Repository,
	thumbs ThumbnailResolver,
	ttl time.Duration,
	log *zap.SugaredLogger,
	clock Clock,
) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if ttl <= 0 {
		ttl = cartdom.DefaultSessionTTL
	}
	return &CartUsecase{
		sessions: sessions,
		products: products,
		thumbs:   thumbs,
		clock:    clock,
		ttl:      ttl,
		newID:    func() string { return uuid.NewString() },
		locks:    newSessionLocks(),
		log:      logger.OrNop(log),
	}
}

// Start はテナントの空の billing session を開きます（ページ読み込みごとに 1 つ）。
func (uc *CartUsecase) Start(ctx context.Context, tenantID string) (*cartdom.Session, error) {
	if uc == nil || uc.sessions == nil {
		return nil, ErrNotConfigured
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		return nil, ErrTenantMissing
	}

	s, err := cartdom.NewSession(uc.newID(), tid, uc.clock.Now(), uc.ttl)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("cart_usecase: save session: %w", err)
	}
	uc.log.Infof("[cart_uc] session started tenant=%s session=%s", tid, s.ID)
	return s, nil
}

// Get は tenantID のセッションを返します。
// 他テナントのセッションや期限切れは not found として扱う。
func (uc *CartUsecase) Get(ctx context.Context, tenantID, sessionID string) (*cartdom.Session, error) {
	if uc == nil || uc.sessions == nil {
		return nil, ErrNotConfigured
	}
	tid := strings.TrimSpace(tenantID)
	sid := strings.TrimSpace(sessionID)
	if tid == "" {
		return nil, ErrTenantMissing
	}
	if sid == "" {
		return nil, ErrSessionInvalidArgument
	}

	s, err := uc.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.OwnedBy(tid) || s.Expired(uc.clock.Now()) {
		return nil, fmt.Errorf("cart_usecase: session %s: %w", sid, common.ErrNotFound)
	}
	return s, nil
}

// Mutate はセッション単位のロック下で fn を実行し、成功したら保存します。
// fn が失敗した場合は保存せず、エラーをそのまま返す。
func (uc *CartUsecase) Mutate(
	ctx context.Context,
	tenantID, sessionID string,
	fn func(s *cartdom.Session) error,
) (*cartdom.Session, error) {
	unlock := uc.locks.lock(strings.TrimSpace(sessionID))
	defer unlock()

	s, err := uc.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return s, err
	}

	s.Touch(uc.clock.Now(), uc.ttl)
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("cart_usecase: save session: %w", err)
	}
	return s, nil
}

// AddOrIncrement は productID を 1 個カートに追加します。
// 商品はストアからライブで読む。存在しない productID は何もしない（added=false）。
func (uc *CartUsecase) AddOrIncrement(ctx context.Context, tenantID, sessionID, productID string) (*cartdom.Session, bool, error) {
	if uc == nil || uc.products == nil {
		return nil, false, ErrNotConfigured
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, false, ErrSessionInvalidArgument
	}

	added := false
	s, err := uc.Mutate(ctx, tenantID, sessionID, func(s *cartdom.Session) error {
		p, err := uc.products.GetByID(ctx, s.TenantID, pid)
		if err != nil {
			if common.IsNotFound(err) {
				uc.log.Infof("[cart_uc] add skipped: product not found tenant=%s product=%s", s.TenantID, pid)
				return nil
			}
			return err
		}

		thumb := resolveThumbnail(ctx, uc.thumbs, p.Thumbnail())

		if err := s.Cart.AddOrIncrement(cartdom.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Thumbnail: thumb,
			SKU:       p.SKU,
		}); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		if common.IsAccessDenied(err) {
			uc.log.Warnf("[cart_uc] access denied reading product=%s err=%v", pid, err)
		}
		return s, false, err
	}
	return s, added, nil
}

// SetQuantity は入力欄の値をそのまま受け取ります。正の整数以外は 1。
func (uc *CartUsecase) SetQuantity(ctx context.Context, tenantID, sessionID, productID, rawQty string) (*cartdom.Session, error) {
	qty := cartdom.ParseQuantity(rawQty)
	return uc.Mutate(ctx, tenantID, sessionID, func(s *cartdom.Session) error {
		s.Cart.SetQuantity(productID, qty)
		return nil
	})
}

// Remove は productID の明細を削除します。無ければ何もしない。
func (uc *CartUsecase) Remove(ctx context.Context, tenantID, sessionID, productID string) (*cartdom.Session, error) {
	return uc.Mutate(ctx, tenantID, sessionID, func(s *cartdom.Session) error {
		s.Cart.Remove(productID)
		return nil
	})
}

// End はセッションを破棄します（ベストエフォート）。
func (uc *CartUsecase) End(ctx context.Context, tenantID, sessionID string) error {
	if _, err := uc.Get(ctx, tenantID, sessionID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	return uc.sessions.Delete(ctx, strings.TrimSpace(sessionID))
}

// -----------------------------------------
// per-session lock
// -----------------------------------------

type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: map[string]*sessionLock{}}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	sl, ok := l.m[id]
	if !ok {
		sl = &sessionLock{}
		l.m[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
