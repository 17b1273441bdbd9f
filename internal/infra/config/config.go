// internal/infra/config/config.go
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port     string
	LogLevel string

	GCPProjectID             string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	GCPCreds                 string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string

	CORSAllowedOrigins []string

	// billing session ストア（REDIS_ADDR が空ならプロセス内メモリ）
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// 商品画像（gs:// / object path）の解決用
	ProductImageBucket string
	SignedURLTTL       time.Duration

	// 任意: 売上台帳（Postgres）
	DatabaseURL string

	// 任意: レシートメール
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	SendGridFrom         string
	ShopName             string
}

// Load は .env（あれば）と環境変数を読み込み Config を返します。
// .env が無いのはエラーではない。既に設定済みの環境変数は .env で上書きしない。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// ベースとなる GCP プロジェクト ID
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	cfg := &Config{
		Port:     getenvDefault("PORT", "8080"),
		LogLevel: getenvDefault("LOG_LEVEL", "info"),

		GCPProjectID:             defaultProject,
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		// FIREBASE_PROJECT_ID が未指定なら GCP のデフォルトを使う
		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		CORSAllowedOrigins: splitCSV(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionTTL:    getenvDuration("SESSION_TTL", 12*time.Hour),

		ProductImageBucket: strings.TrimSpace(os.Getenv("PRODUCT_IMAGE_BUCKET")),
		SignedURLTTL:       getenvDuration("SIGNED_URL_TTL", 15*time.Minute),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		SendGridAPIKey:       strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		SendGridAPIKeySecret: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY_SECRET")),
		SendGridFrom:         strings.TrimSpace(os.Getenv("SENDGRID_FROM")),
		ShopName:             getenvDefault("SHOP_NAME", "POS Billing"),
	}

	if cfg.FirestoreProjectID == "" {
		return nil, errors.New("config: FIRESTORE_PROJECT_ID (or GCP_PROJECT_ID) is required")
	}
	return cfg, nil
}

// GoogleCredentialsFile は Firestore 用の資格情報ファイル（無ければ GOOGLE_APPLICATION_CREDENTIALS）。
// 空なら ADC。
func (c *Config) GoogleCredentialsFile() string {
	if c.FirestoreCredentialsFile != "" {
		return c.FirestoreCredentialsFile
	}
	return c.GCPCreds
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getenvDuration は "30m" / "12h" 形式。不正値は def。
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
