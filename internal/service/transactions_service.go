package service

import (
	"context"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TransactionsService creates, edits, lists and deletes single transactions.
type TransactionsService struct {
	store     port.TransactionStore
	ownership *OwnershipChecker
	logger    *zap.Logger
}

func NewTransactionsService(store port.TransactionStore, ownership *OwnershipChecker, logger *zap.Logger) *TransactionsService {
	return &TransactionsService{store: store, ownership: ownership, logger: logger}
}

func (s *TransactionsService) Create(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "TransactionsService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := firstError(
		requireUUID("bankAccountId", req.BankAccountID),
		requireUUID("categoryId", req.CategoryID),
		requireText("name", req.Name),
		requirePositive("value", req.Value),
		requireDate("date", req.Date),
		requireTransactionType("type", req.Type),
	); err != nil {
		return nil, err
	}

	if err := s.ownership.ValidateAll(ctx, userID,
		domain.EntityRef{Kind: domain.EntityBankAccount, ID: req.BankAccountID},
		domain.EntityRef{Kind: domain.EntityCategory, ID: req.CategoryID},
	); err != nil {
		return nil, err
	}

	categoryID := req.CategoryID
	return s.store.CreateTransaction(ctx, &domain.Transaction{
		UserID:        userID,
		BankAccountID: req.BankAccountID,
		CategoryID:    &categoryID,
		Name:          req.Name,
		Value:         req.Value,
		Date:          req.Date,
		Type:          req.Type,
	})
}

func validateUpdate(req *domain.UpdateTransactionRequest) error {
	if req.BankAccountID != nil {
		if err := requireUUID("bankAccountId", *req.BankAccountID); err != nil {
			return err
		}
	}
	if req.CategoryID != nil {
		if err := requireUUID("categoryId", *req.CategoryID); err != nil {
			return err
		}
	}
	if req.Name != nil {
		if err := requireText("name", *req.Name); err != nil {
			return err
		}
	}
	if req.Value != nil {
		if err := requirePositive("value", *req.Value); err != nil {
			return err
		}
	}
	if req.Date != nil {
		if err := requireDate("date", *req.Date); err != nil {
			return err
		}
	}
	if req.Type != nil {
		if err := requireTransactionType("type", *req.Type); err != nil {
			return err
		}
	}
	return nil
}

// Update overwrites the non-nil fields of req after checking ownership of the
// transaction and of every account/category it now references.
func (s *TransactionsService) Update(ctx context.Context, userID, transactionID string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "TransactionsService.Update")
	defer span.End()

	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	refs := []domain.EntityRef{{Kind: domain.EntityTransaction, ID: transactionID}}
	if req.BankAccountID != nil {
		refs = append(refs, domain.EntityRef{Kind: domain.EntityBankAccount, ID: *req.BankAccountID})
	}
	if req.CategoryID != nil {
		refs = append(refs, domain.EntityRef{Kind: domain.EntityCategory, ID: *req.CategoryID})
	}
	if err := s.ownership.ValidateAll(ctx, userID, refs...); err != nil {
		return nil, err
	}

	return s.store.UpdateTransaction(ctx, transactionID, req)
}

func (s *TransactionsService) Remove(ctx context.Context, userID, transactionID string) error {
	ctx, span := ledgerTracer.Start(ctx, "TransactionsService.Remove")
	defer span.End()

	if err := s.ownership.Validate(ctx, userID, domain.EntityTransaction, transactionID); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}

	s.logger.Debug("transaction removed",
		zap.String("user_id", userID),
		zap.String("transaction_id", transactionID),
	)
	return nil
}

// List returns the user's transactions for one month (zero-based) of a year.
func (s *TransactionsService) List(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "TransactionsService.List")
	defer span.End()
	span.SetAttributes(attribute.Int("filter.month", filter.Month), attribute.Int("filter.year", filter.Year))

	if filter.Month < 0 || filter.Month > 11 {
		return nil, &domain.ErrValidation{Field: "month", Message: "must be between 0 and 11"}
	}
	if filter.Year < 1 {
		return nil, &domain.ErrValidation{Field: "year", Message: "must be positive"}
	}
	if filter.BankAccountID != "" {
		if err := requireUUID("bankAccountId", filter.BankAccountID); err != nil {
			return nil, err
		}
	}
	if filter.Type != "" {
		if err := requireTransactionType("type", filter.Type); err != nil {
			return nil, err
		}
	}

	return s.store.ListTransactions(ctx, userID, filter)
}
