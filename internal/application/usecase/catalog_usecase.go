// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	common "posbilling/internal/domain/common"
	productdom "posbilling/internal/domain/product"
	"posbilling/internal/infra/logger"
)

// DefaultCatalogCacheTTL は検索用エントリをテナント単位で保持する時間。
const DefaultCatalogCacheTTL = 5 * time.Minute

// ThumbnailResolver は保存された画像参照（gs:// / オブジェクトパス / URL）をブラウザで読める URL にします。
// 失敗はしない。解決できなければ "" を返す。
type ThumbnailResolver interface {
	Resolve(ctx context.Context, raw string) string
}

// resolveThumbnail は解決できなかった場合に元の値を返します（ピッカーとカートで同じ規則）。
func resolveThumbnail(ctx context.Context, r ThumbnailResolver, raw string) string {
	raw = strings.TrimSpace(raw)
	if r == nil || raw == "" {
		return raw
	}
	if u := r.Resolve(ctx, raw); u != "" {
		return u
	}
	return raw
}

type catalogCacheEntry struct {
	entries  []productdom.CatalogEntry
	loadedAt time.Time
}

// CatalogUsecase は検索ピッカー用に businesses/{tenantId}/products を読み込みます。
//
//   - Load:   ストアから全件読み直し、キャッシュも入れ替える（画面の初期化時）
//   - Search: キャッシュ済みのエントリを FilterEntries で絞り込む（期限切れ・未読込のときだけ Load）
type CatalogUsecase struct {
	products productdom.Repository
	thumbs   ThumbnailResolver
	log      *zap.SugaredLogger

	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	cache map[string]catalogCacheEntry
	sfg   singleflight.Group
}

func NewCatalogUsecase(products productdom.Repository, thumbs ThumbnailResolver, log *zap.SugaredLogger) *CatalogUsecase {
	return &CatalogUsecase{
		products: products,
		thumbs:   thumbs,
		log:      logger.OrNop(log),
		ttl:      DefaultCatalogCacheTTL,
		now:      time.Now,
		cache:    map[string]catalogCacheEntry{},
	}
}

// WithCacheTTL はエントリの保持時間を変更します（0 以下は既定値）。
func (uc *CatalogUsecase) WithCacheTTL(ttl time.Duration) *CatalogUsecase {
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	uc.ttl = ttl
	return uc
}

// Load は全商品を取得して検索エントリに変換します。部分的な一覧は返さない。
//
//   - ストア未設定 / tenant 空 -> ErrCatalogConfig（tenant 空ならストアは呼ばない）
//   - 権限エラー               -> common.ErrAccessDenied を wrap
//   - それ以外                 -> ErrCatalogFetch を wrap
func (uc *CatalogUsecase) Load(ctx context.Context, tenantID string) ([]productdom.CatalogEntry, error) {
	if uc == nil || uc.products == nil {
		return nil, ErrCatalogConfig
	}
	tid := strings.TrimSpace(tenantID)
	if tid == "" {
		uc.log.Errorf("[catalog_uc] config error: tenant id is empty")
		return nil, ErrCatalogConfig
	}

	v, err, _ := uc.sfg.Do(tid, func() (any, error) {
		return uc.fetch(ctx, tid)
	})
	if err != nil {
		return nil, err
	}
	return v.([]productdom.CatalogEntry), nil
}

// Search は query（大文字小文字を無視した部分一致）に一致するエントリを返します。
func (uc *CatalogUsecase) Search(ctx context.Context, tenantID, query string) ([]productdom.CatalogEntry, error) {
	if uc == nil || uc.products == nil {
		return nil, ErrCatalogConfig
	}
	tid := strings.TrimSpace(tenantID)

	entries, ok := uc.cached(tid)
	if !ok {
		var err error
		if entries, err = uc.Load(ctx, tid); err != nil {
			return nil, err
		}
	}
	return productdom.FilterEntries(entries, query), nil
}

func (uc *CatalogUsecase) cached(tid string) ([]productdom.CatalogEntry, bool) {
	if tid == "" {
		return nil, false
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	c, ok := uc.cache[tid]
	if !ok || uc.now().Sub(c.loadedAt) >= uc.ttl {
		return nil, false
	}
	return c.entries, true
}

func (uc *CatalogUsecase) fetch(ctx context.Context, tid string) ([]productdom.CatalogEntry, error) {
	items, err := uc.products.ListByTenant(ctx, tid)
	if err != nil {
		switch {
		case common.IsNotConfigured(err):
			uc.log.Errorf("[catalog_uc] config error: store handle is missing tenant=%s err=%v", tid, err)
			return nil, fmt.Errorf("%w: %v", ErrCatalogConfig, err)
		case common.IsAccessDenied(err):
			uc.log.Warnf("[catalog_uc] access denied listing products tenant=%s err=%v", tid, err)
			return nil, fmt.Errorf("catalog: list products: %w", err)
		default:
			uc.log.Errorf("[catalog_uc] fetch failed tenant=%s err=%v", tid, err)
			return nil, fmt.Errorf("%w: %v", ErrCatalogFetch, err)
		}
	}

	entries := make([]productdom.CatalogEntry, 0, len(items))
	for _, p := range items {
		entries = append(entries, productdom.NewCatalogEntry(p, resolveThumbnail(ctx, uc.thumbs, p.Thumbnail())))
	}

	uc.mu.Lock()
	uc.cache[tid] = catalogCacheEntry{entries: entries, loadedAt: uc.now()}
	uc.mu.Unlock()

	uc.log.Debugf("[catalog_uc] loaded tenant=%s entries=%d", tid, len(entries))
	return entries, nil
}
