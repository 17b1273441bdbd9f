// internal/adapters/out/gcs/common/gcs_url.go
package common

import (
	"fmt"
	"net/url"
	"strings"
)

// GCSPublicURL は公開 GCS URL を組み立てます。
// - bucket が空なら defaultBucket を使用
// - objectPath の先頭の "/" は除去
func GCSPublicURL(bucket, objectPath, defaultBucket string) string {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = strings.TrimSpace(defaultBucket)
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b, (&url.URL{Path: obj}).EscapedPath())
}

// ParseGCSURL は GCS 形式の URL を解析し (bucket, objectPath, ok) を返します。
// 対応例:
//   - gs://<bucket>/<object>
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseGCSURL(u string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", "", false
	}

	if strings.EqualFold(parsed.Scheme, "gs") {
		obj := strings.TrimLeft(parsed.Path, "/")
		if parsed.Host == "" || obj == "" {
			return "", "", false
		}
		return parsed.Host, obj, true
	}

	host := strings.ToLower(parsed.Host)
	if host != "storage.googleapis.com" && host != "storage.cloud.google.com" {
		return "", "", false
	}

	p := strings.TrimLeft(parsed.EscapedPath(), "/")
	if p == "" {
		return "", "", false
	}

	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", "", false
	}

	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], objectPath, true
}
