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
// Bank accounts
// ============================================================

func (s *Store) CreateBankAccount(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateBankAccount")
	defer span.End()

	rec := &bankAccountRecord{
		ID:             account.ID,
		UserID:         account.UserID,
		Name:           account.Name,
		Color:          account.Color,
		Type:           string(account.Type),
		InitialBalance: account.InitialBalance,
		BankAccountKey: account.BankAccountKey,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.ErrDuplicate{Key: rec.BankAccountKey}
		}
		return nil, fmt.Errorf("create bank account: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (s *Store) ListBankAccounts(ctx context.Context, userID string) ([]domain.BankAccountWithLedger, error) {
	ctx, span := tracer.Start(ctx, "Store.ListBankAccounts")
	defer span.End()

	var recs []bankAccountRecord
	err := s.db.WithContext(ctx).
		Preload("Transactions").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}

	out := make([]domain.BankAccountWithLedger, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toLedger())
	}
	return out, nil
}

func (s *Store) GetBankAccount(ctx context.Context, userID, accountID string) (*domain.BankAccountWithLedger, error) {
	ctx, span := tracer.Start(ctx, "Store.GetBankAccount")
	defer span.End()

	q := s.db.WithContext(ctx).Preload("Transactions").Where("id = ?", accountID)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var rec bankAccountRecord
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "bank account", ID: accountID}
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	out := rec.toLedger()
	return &out, nil
}

func (s *Store) GetBankAccountByKey(ctx context.Context, key string) (*domain.BankAccountOwnerView, error) {
	ctx, span := tracer.Start(ctx, "Store.GetBankAccountByKey")
	defer span.End()

	var rec bankAccountRecord
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("bank_account_key = ?", key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "bank account", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account by key: %w", err)
	}
	return &domain.BankAccountOwnerView{
		BankAccount: rec.toDomain(),
		User:        domain.UserProfile{Name: rec.User.Name, Email: rec.User.Email},
	}, nil
}

func (s *Store) UpdateBankAccount(ctx context.Context, accountID string, req *domain.UpdateBankAccountRequest) (*domain.BankAccount, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateBankAccount")
	defer span.End()

	res := s.db.WithContext(ctx).Model(&bankAccountRecord{}).Where("id = ?", accountID).Updates(map[string]any{
		"name":            req.Name,
		"color":           req.Color,
		"type":            string(req.Type),
		"initial_balance": req.InitialBalance,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update bank account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &domain.ErrNotFound{Resource: "bank account", ID: accountID}
	}

	var rec bankAccountRecord
	if err := s.db.WithContext(ctx).Where("id = ?", accountID).First(&rec).Error; err != nil {
		return nil, fmt.Errorf("reload bank account: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

// DeleteBankAccount removes the account and its ledger rows.
func (s *Store) DeleteBankAccount(ctx context.Context, accountID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteBankAccount")
	defer span.End()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bank_account_id = ?", accountID).Delete(&transactionRecord{}).Error; err != nil {
			return fmt.Errorf("delete account transactions: %w", err)
		}
		res := tx.Where("id = ?", accountID).Delete(&bankAccountRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete bank account: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &domain.ErrNotFound{Resource: "bank account", ID: accountID}
		}
		return nil
	})
}
