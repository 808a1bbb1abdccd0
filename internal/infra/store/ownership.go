package store

import (
	"context"
	"fmt"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
)

// Owns reports whether the entity of the given kind belongs to userID.
// Receipts are owned through the transaction that references their key.
func (s *Store) Owns(ctx context.Context, userID string, kind domain.EntityKind, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store.Owns")
	defer span.End()

	var (
		model  any
		column = "id"
	)
	switch kind {
	case domain.EntityBankAccount:
		model = &bankAccountRecord{}
	case domain.EntityCategory:
		model = &categoryRecord{}
	case domain.EntityTransaction:
		model = &transactionRecord{}
	case domain.EntityReceipt:
		model = &transactionRecord{}
		column = "receipt_key"
	default:
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}

	var n int64
	err := s.db.WithContext(ctx).Model(model).
		Where(column+" = ? AND user_id = ?", id, userID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s ownership: %w", kind, err)
	}
	return n > 0, nil
}
