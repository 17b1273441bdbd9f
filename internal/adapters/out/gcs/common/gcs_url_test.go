package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGCSURL(t *testing.T) {
	cases := []struct {
		in     string
		bucket string
		obj    string
		ok     bool
	}{
		{"gs://shop-images/products/tea.png", "shop-images", "products/tea.png", true},
		{"https://storage.googleapis.com/shop-images/products/tea%20green.png", "shop-images", "products/tea green.png", true},
		{"https://storage.cloud.google.com/b/o.png", "b", "o.png", true},
		{"https://example.com/b/o.png", "", "", false},
		{"gs://bucket-only", "", "", false},
		{"https://storage.googleapis.com/bucket-only", "", "", false},
	}
	for _, tc := range cases {
		b, o, ok := ParseGCSURL(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.bucket, b, tc.in)
		assert.Equal(t, tc.obj, o, tc.in)
	}
}

func TestGCSPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/p/tea.png", GCSPublicURL("b", "/p/tea.png", "d"))
	assert.Equal(t, "https://storage.googleapis.com/d/tea%20green.png", GCSPublicURL("", "tea green.png", "d"))
}
