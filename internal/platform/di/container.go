// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpin "posbilling/internal/adapters/in/http"
	"posbilling/internal/adapters/in/http/middleware"
	dbout "posbilling/internal/adapters/out/db"
	fs "posbilling/internal/adapters/out/firestore"
	gcsout "posbilling/internal/adapters/out/gcs"
	mailout "posbilling/internal/adapters/out/mail"
	"posbilling/internal/adapters/out/memory"
	redisout "posbilling/internal/adapters/out/redis"
	usecase "posbilling/internal/application/usecase"
	cartdom "posbilling/internal/domain/cart"
	"posbilling/internal/infra/config"
	"posbilling/internal/infra/database"
	firestoreinfra "posbilling/internal/infra/firestore"
	"posbilling/internal/infra/logger"
	"posbilling/internal/infra/secret"
)

// Container は main.go から使う依存オブジェクトの束。
type Container struct {
	Config *config.Config
	Log    *zap.SugaredLogger

	// infra
	Firestore *firestoreinfra.ClientWrapper
	Storage   *storage.Client
	Redis     *goredis.Client
	DB        *database.DB

	// usecase
	CatalogUC *usecase.CatalogUsecase
	CartUC    *usecase.CartUsecase
	InvoiceUC *usecase.InvoiceUsecase

	Auth *middleware.AuthMiddleware
}

// NewContainer は設定から外部クライアント・リポジトリ・ユースケースを組み立てます。
//
// 必須: Firestore（失敗したらエラー）
// 任意: Firebase Auth / Redis / GCS 署名 / Postgres 台帳 / SendGrid（無ければ WARN ログのみ）
// ただし REDIS_ADDR を指定したのに繋がらない場合はエラーにする（セッションが消えるため）。
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Log: log}

	opts := firestoreinfra.ClientOptions(cfg.GoogleCredentialsFile())

	// ============================================================
	// Firestore
	// ============================================================
	fsw, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("di: firestore: %w", err)
	}
	c.Firestore = fsw
	log.Infof("[di] firestore client ready project=%s", cfg.FirestoreProjectID)

	productRepo := fs.NewProductRepositoryFS(fsw.Client)
	invoiceRepo := fs.NewInvoiceRepositoryFS(fsw.Client)

	// ============================================================
	// Firebase Auth
	// ============================================================
	c.Auth = &middleware.AuthMiddleware{Log: log}
	fbProject := strings.TrimSpace(cfg.FirebaseProjectID)
	if fbProject == "" {
		fbProject = cfg.FirestoreProjectID
	}
	if app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fbProject}, opts...); err != nil {
		log.Warnf("[di] WARN: firebase app init failed: %v (api routes will return 503)", err)
	} else if authClient, err := app.Auth(ctx); err != nil {
		log.Warnf("[di] WARN: firebase auth client init failed: %v (api routes will return 503)", err)
	} else {
		c.Auth.Verifier = authClient
	}

	// ============================================================
	// Session store
	// ============================================================
	sessions, err := c.newSessionStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	// ============================================================
	// Thumbnail resolver (GCS)
	// ============================================================
	var signer gcsout.URLSigner
	if strings.TrimSpace(cfg.ProductImageBucket) != "" {
		sc, err := storage.NewClient(ctx, opts...)
		if err != nil {
			log.Warnf("[di] WARN: storage client init failed: %v (thumbnails fall back to public urls)", err)
		} else {
			c.Storage = sc
			signer = gcsout.NewStorageSigner(sc)
		}
	}
	thumbs := gcsout.NewThumbnailURLResolver(cfg.ProductImageBucket, signer, cfg.SignedURLTTL, log)

	// ============================================================
	// Usecases
	// ============================================================
	c.CatalogUC = usecase.NewCatalogUsecase(productRepo, thumbs, log)
	c.CartUC = usecase.NewCartUsecase(sessions, productRepo, thumbs, cfg.SessionTTL, log)
	c.InvoiceUC = usecase.NewInvoiceUsecase(invoiceRepo, productRepo, c.CartUC, log)

	c.wireLedger(ctx)
	c.wireReceiptMailer(ctx)

	return c, nil
}

func (c *Container) newSessionStore(ctx context.Context) (cartdom.SessionStore, error) {
	addr := strings.TrimSpace(c.Config.RedisAddr)
	if addr == "" {
		c.Log.Infof("[di] session store = memory (REDIS_ADDR is empty)")
		return memory.NewSessionStoreMem(), nil
	}

	rc := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: c.Config.RedisPassword,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("di: redis ping %s: %w", addr, err)
	}
	c.Redis = rc
	c.Log.Infof("[di] session store = redis addr=%s", addr)
	return redisout.NewSessionStoreRedis(rc), nil
}

// wireLedger は DATABASE_URL があれば売上台帳（Postgres）を InvoiceUsecase に繋ぎます。
func (c *Container) wireLedger(ctx context.Context) {
	if strings.TrimSpace(c.Config.DatabaseURL) == "" {
		return
	}
	conn, err := database.NewConnection(ctx, c.Config.DatabaseURL, c.Log)
	if err != nil {
		c.Log.Warnf("[di] WARN: sales ledger disabled: %v", err)
		return
	}
	ledger := dbout.NewSalesLedgerPG(conn.Client)
	if err := ledger.EnsureSchema(ctx); err != nil {
		c.Log.Warnf("[di] WARN: sales ledger schema failed: %v (ledger disabled)", err)
		_ = conn.Close()
		return
	}
	c.DB = conn
	c.InvoiceUC.WithLedger(ledger)
	c.Log.Infof("[di] sales ledger enabled")
}

// wireReceiptMailer は SendGrid キー（env か Secret Manager）があればレシート送信を有効にします。
func (c *Container) wireReceiptMailer(ctx context.Context) {
	key := strings.TrimSpace(c.Config.SendGridAPIKey)
	if key == "" && strings.TrimSpace(c.Config.SendGridAPIKeySecret) != "" {
		key = c.sendGridKeyFromSecretManager(ctx)
	}

	mailer := mailout.NewReceiptMailerWithSendGrid(key, c.Config.SendGridFrom, c.Config.ShopName, c.Log)
	if mailer == nil {
		c.Log.Infof("[di] receipt mail disabled (sendgrid not configured)")
		return
	}
	c.InvoiceUC.WithNotifier(mailer)
	c.Log.Infof("[di] receipt mail enabled from=%s", c.Config.SendGridFrom)
}

func (c *Container) sendGridKeyFromSecretManager(ctx context.Context) string {
	projectID := c.Config.GCPProjectID
	if projectID == "" {
		projectID = c.Config.FirestoreProjectID
	}

	sm, err := secret.NewProviderSM(ctx, projectID, firestoreinfra.ClientOptions(c.Config.GoogleCredentialsFile())...)
	if err != nil {
		c.Log.Warnf("[di] WARN: secret manager init failed: %v", err)
		return ""
	}
	defer func() { _ = sm.Close() }()

	key, err := sm.Get(ctx, c.Config.SendGridAPIKeySecret)
	if err != nil {
		c.Log.Warnf("[di] WARN: sendgrid key secret=%s: %v", c.Config.SendGridAPIKeySecret, err)
		return ""
	}
	return key
}

// RouterDeps は HTTP ルーターに渡す依存をまとめます。
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		CatalogUC:      c.CatalogUC,
		CartUC:         c.CartUC,
		InvoiceUC:      c.InvoiceUC,
		Auth:           c.Auth,
		AllowedOrigins: c.Config.CORSAllowedOrigins,
		PageTitle:      c.Config.ShopName,
		Ready:          c.Ready,
		Log:            c.Log,
	}
}

// Ready は /readyz 用。Firestore と（使っていれば）Redis に届くかを見る。
func (c *Container) Ready(r *http.Request) error {
	ctx := r.Context()
	if err := c.Firestore.Ping(ctx); err != nil {
		return err
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}
	return nil
}

// Close は Cloud Run 終了時などに呼んで安全にリソースを閉じる。
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
}
