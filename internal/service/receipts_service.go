package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	TransferUploadsPrefix = "transfers/"
	GenericUploadsPrefix  = "uploads/"

	receiptContentType = "application/pdf"
)

// ReceiptStorage stores transfer receipts and hands out short-lived links to
// them. Links are only issued to the user who owns the receipt.
type ReceiptStorage struct {
	objects   port.ObjectStore
	ownership *OwnershipChecker
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewReceiptStorage creates the gateway. A non-positive ttl falls back to 60s.
func NewReceiptStorage(objects port.ObjectStore, ownership *OwnershipChecker, ttl time.Duration, logger *zap.Logger) *ReceiptStorage {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ReceiptStorage{
		objects:   objects,
		ownership: ownership,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

func (r *ReceiptStorage) objectKey(logicalName string, isTransfer bool) string {
	prefix := GenericUploadsPrefix
	if isTransfer {
		prefix = TransferUploadsPrefix
	}
	name := strings.ReplaceAll(path.Base(logicalName), " ", "-")
	return fmt.Sprintf("%s%d-%s-%s", prefix, r.now().UnixMilli(), uuid.NewString(), name)
}

// Upload writes content under a unique key and returns that key.
func (r *ReceiptStorage) Upload(ctx context.Context, logicalName string, content []byte, isTransfer bool) (string, error) {
	ctx, span := ledgerTracer.Start(ctx, "ReceiptStorage.Upload")
	defer span.End()

	if isTransfer && len(content) == 0 {
		return "", &domain.ErrValidation{Field: "file", Message: "transfer receipt is empty"}
	}
	if err := requireText("fileName", logicalName); err != nil {
		return "", err
	}

	key := r.objectKey(logicalName, isTransfer)
	span.SetAttributes(attribute.String("object.key", key), attribute.Int("object.size", len(content)))

	if err := r.objects.Put(ctx, key, content, receiptContentType); err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	r.logger.Debug("receipt uploaded",
		zap.String("key", key),
		zap.Int("size", len(content)),
	)
	return key, nil
}

// SignedURL issues a read link for key once userID is shown to own it.
func (r *ReceiptStorage) SignedURL(ctx context.Context, userID, key string) (*domain.SignedURL, error) {
	ctx, span := ledgerTracer.Start(ctx, "ReceiptStorage.SignedURL")
	defer span.End()

	if err := requireText("fileName", key); err != nil {
		return nil, err
	}
	if err := r.ownership.Validate(ctx, userID, domain.EntityReceipt, key); err != nil {
		return nil, err
	}

	expiresAt := r.now().Add(r.ttl)
	url, err := r.objects.SignedURL(ctx, key, r.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign receipt url: %w", err)
	}
	return &domain.SignedURL{URL: url, ExpiresAt: expiresAt}, nil
}

func (r *ReceiptStorage) Delete(ctx context.Context, key string) error {
	ctx, span := ledgerTracer.Start(ctx, "ReceiptStorage.Delete")
	defer span.End()

	if err := r.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	return nil
}
