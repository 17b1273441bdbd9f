// internal/adapters/out/gcs/thumbnail_url_resolver.go
package gcs

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	gcscommon "posbilling/internal/adapters/out/gcs/common"
	"posbilling/internal/infra/logger"
)

const defaultSignedURLTTL = 15 * time.Minute

// URLSigner は GET 用の署名付き URL を発行します（*storage.Client 用のアダプタは NewStorageSigner）。
type URLSigner interface {
	SignedURL(bucket, object string, opts *storage.SignedURLOptions) (string, error)
}

type storageSigner struct {
	client *storage.Client
}

// NewStorageSigner は storage クライアントを包みます。署名方式は BucketHandle.SignedURL が認証情報から判定する。
func NewStorageSigner(client *storage.Client) URLSigner {
	if client == nil {
		return nil
	}
	return storageSigner{client: client}
}

func (s storageSigner) SignedURL(bucket, object string, opts *storage.SignedURLOptions) (string, error) {
	return s.client.Bucket(bucket).SignedURL(object, opts)
}

// ThumbnailURLResolver は product.image の値をブラウザで読める URL にします。
//
// image の値:
//   - http(s)://... (GCS 以外はそのまま)
//   - gs://bucket/object, https://storage.googleapis.com/... (署名付き URL、失敗時は公開 URL)
//   - objectPath (Bucket 内のオブジェクトとして扱う)
type ThumbnailURLResolver struct {
	Bucket string
	Signer URLSigner
	TTL    time.Duration

	log *zap.SugaredLogger
}

func NewThumbnailURLResolver(bucket string, signer URLSigner, ttl time.Duration, log *zap.SugaredLogger) *ThumbnailURLResolver {
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	return &ThumbnailURLResolver{
		Bucket: strings.TrimSpace(bucket),
		Signer: signer,
		TTL:    ttl,
		log:    logger.OrNop(log),
	}
}

// Resolve は失敗しない。解決できない入力は "" を返す。
func (r *ThumbnailURLResolver) Resolve(_ context.Context, raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}

	bucket, obj, ok := gcscommon.ParseGCSURL(p)
	if !ok {
		// GCS 以外の絶対 URL
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			return p
		}
		if r.Bucket == "" {
			return ""
		}
		bucket, obj = r.Bucket, strings.TrimLeft(p, "/")
	}

	if r.Signer != nil {
		u, err := r.Signer.SignedURL(bucket, obj, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  http.MethodGet,
			Expires: time.Now().UTC().Add(r.TTL),
		})
		if err == nil && u != "" {
			return u
		}
		r.log.Debugf("[thumbnail] signed url failed bucket=%s object=%s err=%v (fallback to public url)", bucket, obj, err)
	}
	return gcscommon.GCSPublicURL(bucket, obj, r.Bucket)
}
