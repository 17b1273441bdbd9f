// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpin "posbilling/internal/adapters/in/http"
	"posbilling/internal/infra/config"
	"posbilling/internal/infra/logger"
	"posbilling/internal/platform/di"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("[boot] config load failed: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("[boot] logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	slog := zl.Sugar()

	// ─────────────────────────────────────────────────────────────
	// DI コンテナ（失敗時も /healthz は返す）
	// ─────────────────────────────────────────────────────────────
	var handler http.Handler
	cont, err := di.NewContainer(ctx, cfg, slog)
	if err != nil {
		slog.Errorf("[boot] WARN: di init failed: %v (serving /healthz only)", err)
		handler = httpin.NewRouter(httpin.RouterDeps{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			PageTitle:      cfg.ShopName,
			Ready:          func(*http.Request) error { return err },
			Log:            slog,
		})
	} else {
		defer cont.Close()
		handler = httpin.NewRouter(cont.RouterDeps())
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown for Cloud Run
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		slog.Infof("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Errorf("[boot] server shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	slog.Infof("[boot] listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Fatalf("[boot] server error: %v", err)
	}

	<-idleConnsClosed
	slog.Infof("[boot] server stopped")
}
