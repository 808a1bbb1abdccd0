// Package objectstore stores generated receipts in Google Cloud Storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/observability"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/resilience"

	"cloud.google.com/go/storage"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("objectstore")

const serviceName = "gcs"

// Signer carries explicit credentials for signing URLs. When empty, the
// client's default credentials (or the IAM signBlob API) are used.
type Signer struct {
	GoogleAccessID string
	PrivateKey     []byte
}

// GCS implements port.ObjectStore on a single bucket.
type GCS struct {
	client   *storage.Client
	bucket   string
	signer   Signer
	cb       *gobreaker.CircuitBreaker
	cfg      resilience.Config
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewGCS creates a bucket-scoped object store.
func NewGCS(client *storage.Client, bucket string, signer Signer, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *GCS {
	return &GCS{
		client:   client,
		bucket:   bucket,
		signer:   signer,
		cb:       cb,
		cfg:      cfg,
		bulkhead: resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:  metrics,
		logger:   logger,
	}
}

// Put uploads content under key.
func (g *GCS) Put(ctx context.Context, key string, content []byte, contentType string) error {
	ctx, span := tracer.Start(ctx, "GCS.Put")
	defer span.End()
	span.SetAttributes(attribute.String("object.key", key), attribute.Int("object.size", len(content)))

	if err := g.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer g.bulkhead.Release()

	err := resilience.Guard(ctx, g.cb, g.cfg, func() error {
		wctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		w := g.client.Bucket(g.bucket).Object(key).NewWriter(wctx)
		w.ContentType = contentType
		if _, err := w.Write(content); err != nil {
			_ = w.Close()
			return fmt.Errorf("write object: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("finalize upload: %w", err)
		}
		return nil
	})
	if err != nil {
		return g.upstreamError("put", key, err)
	}

	g.logger.Debug("gcs: object stored", zap.String("key", key), zap.Int("bytes", len(content)))
	return nil
}

// SignedURL issues a V4 GET link to key valid for ttl.
func (g *GCS) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	_, span := tracer.Start(ctx, "GCS.SignedURL")
	defer span.End()
	span.SetAttributes(attribute.String("object.key", key))

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	}
	if g.signer.GoogleAccessID != "" {
		opts.GoogleAccessID = g.signer.GoogleAccessID
		opts.PrivateKey = g.signer.PrivateKey
	}

	url, err := g.client.Bucket(g.bucket).SignedURL(key, opts)
	if err != nil {
		return "", g.upstreamError("sign", key, err)
	}
	return url, nil
}

// Delete removes key. A missing object is not an error.
func (g *GCS) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "GCS.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("object.key", key))

	err := resilience.Guard(ctx, g.cb, g.cfg, func() error {
		err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return err
	})
	if err != nil {
		return g.upstreamError("delete", key, err)
	}
	return nil
}

func (g *GCS) upstreamError(op, key string, err error) error {
	g.metrics.IncrExternalError(serviceName)
	g.logger.Error("gcs: operation failed",
		zap.String("op", op),
		zap.String("bucket", g.bucket),
		zap.String("key", key),
		zap.Error(err),
	)

	var open *domain.ErrCircuitOpen
	if errors.As(err, &open) {
		return open
	}
	return &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("%s %s: %w", op, key, err)}
}
