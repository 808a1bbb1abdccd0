package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/config"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/handler"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/lock"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/objectstore"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/observability"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/receipt"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/store"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("gcs_bucket", cfg.GCSBucket),
		zap.Bool("redis_locks", cfg.RedisAddr != ""),
		zap.Duration("signed_url_ttl", cfg.SignedURLTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "finance-ledger-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Database ---
	db, err := store.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	checks := []handler.HealthCheck{{Name: "database", Ping: db.Ping}}

	// --- Object storage ---
	gcsClient, err := storage.NewClient(context.Background())
	if err != nil {
		logger.Fatal("failed to create storage client", zap.Error(err))
	}
	defer gcsClient.Close()

	signer := objectstore.Signer{GoogleAccessID: cfg.GCSSignerEmail}
	if cfg.GCSPrivateKeyFile != "" {
		signer.PrivateKey, err = os.ReadFile(cfg.GCSPrivateKeyFile)
		if err != nil {
			logger.Fatal("failed to read signing key", zap.Error(err))
		}
	}

	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	objects := objectstore.NewGCS(gcsClient, cfg.GCSBucket, signer, resilience.NewCircuitBreaker("gcs"), resilienceCfg, metrics, logger)

	// --- Locks ---
	var locker port.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		redisLocker := lock.NewRedis(rdb, cfg.LockTTL, logger)
		locker = redisLocker
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: redisLocker.Ping})
		logger.Info("using redis for transfer locks", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, transfer locks are local to this instance")
	}

	// --- Receipts ---
	loc, err := time.LoadLocation(cfg.ReceiptTimezone)
	if err != nil {
		logger.Warn("unknown receipt timezone, using UTC", zap.String("tz", cfg.ReceiptTimezone), zap.Error(err))
		loc = time.UTC
	}
	renderer := receipt.NewPDFRenderer(loc)

	// --- Services ---
	ownership := service.NewOwnershipChecker(db)
	receipts := service.NewReceiptStorage(objects, ownership, cfg.SignedURLTTL, logger)

	svc := handler.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.JWTAccessTTL, logger),
		Users:        service.NewUsersService(db),
		Accounts:     service.NewAccountsService(db, ownership, rand.New(rand.NewSource(time.Now().UnixNano())), logger),
		Categories:   service.NewCategoriesService(db),
		Transactions: service.NewTransactionsService(db, ownership, logger),
		Transfers:    service.NewTransferService(db, receipts, renderer, locker, metrics, logger),
		Receipts:     receipts,
	}

	// --- Router ---
	router := handler.NewRouter(svc, checks, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
