package service

import (
	"context"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var resourceNames = map[domain.EntityKind]string{
	domain.EntityBankAccount: "bank account",
	domain.EntityCategory:    "category",
	domain.EntityTransaction: "transaction",
	domain.EntityReceipt:     "receipt",
}

// OwnershipChecker confirms that entities belong to the requesting user.
// A missing entity and a foreign one are indistinguishable to the caller.
type OwnershipChecker struct {
	store port.OwnershipStore
}

// NewOwnershipChecker creates a checker backed by store.
func NewOwnershipChecker(store port.OwnershipStore) *OwnershipChecker {
	return &OwnershipChecker{store: store}
}

// Validate fails with *domain.ErrNotFound unless userID owns the entity.
func (c *OwnershipChecker) Validate(ctx context.Context, userID string, kind domain.EntityKind, id string) error {
	ctx, span := ledgerTracer.Start(ctx, "OwnershipChecker.Validate")
	defer span.End()
	span.SetAttributes(attribute.String("entity.kind", string(kind)), attribute.String("entity.id", id))

	owned, err := c.store.Owns(ctx, userID, kind, id)
	if err != nil {
		return err
	}
	if !owned {
		return &domain.ErrNotFound{Resource: resourceNames[kind], ID: id}
	}
	return nil
}

// ValidateAll checks every ref concurrently. Refs with an empty id are skipped.
func (c *OwnershipChecker) ValidateAll(ctx context.Context, userID string, refs ...domain.EntityRef) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		ref := ref
		g.Go(func() error {
			return c.Validate(gctx, userID, ref.Kind, ref.ID)
		})
	}
	return g.Wait()
}
