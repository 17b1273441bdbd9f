// internal/infra/logger/logger.go
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New は LOG_LEVEL（debug/info/warn/error）に応じた production 設定の zap.Logger を返します。
// 不正なレベル文字列はエラー。空文字は info。
func New(level string) (*zap.Logger, error) {
	lv := strings.TrimSpace(level)
	if lv == "" {
		lv = "info"
	}
	atomic, err := zap.ParseAtomicLevel(lv)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	return cfg.Build(zap.AddCaller())
}

// OrNop は nil の場合に no-op logger を返します（usecase / adapter の nil 安全用）。
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
