package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ============================================================
// Transactions
// ============================================================

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateTransaction")
	defer span.End()

	rec := transactionFromDomain(tx)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, transactionID string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateTransaction")
	defer span.End()

	updates := map[string]any{}
	if req.BankAccountID != nil {
		updates["bank_account_id"] = *req.BankAccountID
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Date != nil {
		updates["date"] = req.Date.UTC()
	}
	if req.Type != nil {
		updates["type"] = string(*req.Type)
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&transactionRecord{}).Where("id = ?", transactionID).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update transaction: %w", res.Error)
		}
	}

	var rec transactionRecord
	err := s.db.WithContext(ctx).Where("id = ?", transactionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	if err != nil {
		return nil, fmt.Errorf("reload transaction: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteTransaction")
	defer span.End()

	res := s.db.WithContext(ctx).Where("id = ?", transactionID).Delete(&transactionRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	return nil
}

// ListTransactions returns the user's transactions dated inside the filter's
// month, each with its category summary, oldest first.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTransactions")
	defer span.End()

	start, end := filter.Period()
	q := s.db.WithContext(ctx).
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "icon")
		}).
		Where("user_id = ?", userID).
		Where("date >= ? AND date < ?", start, end)
	if filter.BankAccountID != "" {
		q = q.Where("bank_account_id = ?", filter.BankAccountID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}

	var recs []transactionRecord
	if err := q.Order("date asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]domain.Transaction, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (s *Store) PaymentIDExists(ctx context.Context, userID, paymentID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store.PaymentIDExists")
	defer span.End()

	var n int64
	err := s.db.WithContext(ctx).Model(&transactionRecord{}).
		Where("user_id = ? AND payment_id = ?", userID, paymentID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check payment id: %w", err)
	}
	return n > 0, nil
}
