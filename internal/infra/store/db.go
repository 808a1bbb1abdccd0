// Package store is the relational persistence layer, built on gorm.
// Postgres DSNs select the postgres driver; anything else is treated as a
// sqlite path (":memory:" for tests).
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("store")

// Store implements port.LedgerStore.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ port.LedgerStore = (*Store)(nil)

// Open connects to dsn and migrates the schema.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	dialector, memory := dialectorFor(dsn)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if memory {
		// every new connection to ":memory:" is a separate empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&userRecord{}, &categoryRecord{}, &bankAccountRecord{}, &transactionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		return sqlite.Open(path), path == ":memory:"
	}
}

// WithinTx runs fn inside one database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.LedgerStore) error) error {
	ctx, span := tracer.Start(ctx, "Store.WithinTx")
	defer span.End()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx, logger: s.logger})
	})
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
