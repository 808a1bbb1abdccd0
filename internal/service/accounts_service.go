package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxKeyAttempts bounds retries when a generated account key is already taken.
const maxKeyAttempts = 5

// AccountsService manages bank accounts and their derived balances.
type AccountsService struct {
	store     port.BankAccountStore
	ownership *OwnershipChecker
	logger    *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAccountsService creates a new accounts service. rng feeds account key generation.
func NewAccountsService(store port.BankAccountStore, ownership *OwnershipChecker, rng *rand.Rand, logger *zap.Logger) *AccountsService {
	return &AccountsService{store: store, ownership: ownership, rng: rng, logger: logger}
}

func validateBankAccountRequest(req *domain.CreateBankAccountRequest) error {
	if err := requireText("name", req.Name); err != nil {
		return err
	}
	if !req.Type.Valid() {
		return &domain.ErrValidation{Field: "type", Message: "must be CHECKING, INVESTMENT or CASH"}
	}
	if !hexColor.MatchString(req.Color) {
		return &domain.ErrValidation{Field: "color", Message: "must be a hex color"}
	}
	return requireCents("initialBalance", req.InitialBalance)
}

func (s *AccountsService) nextKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.GenerateAccountKey(s.rng)
}

func (s *AccountsService) Create(ctx context.Context, userID string, req *domain.CreateBankAccountRequest) (*domain.BankAccount, error) {
	ctx, span := ledgerTracer.Start(ctx, "AccountsService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := validateBankAccountRequest(req); err != nil {
		return nil, err
	}

	var (
		account *domain.BankAccount
		err     error
	)
	for attempt := 1; ; attempt++ {
		account, err = s.store.CreateBankAccount(ctx, &domain.BankAccount{
			UserID:         userID,
			Name:           req.Name,
			Color:          req.Color,
			Type:           req.Type,
			InitialBalance: req.InitialBalance,
			BankAccountKey: s.nextKey(),
		})
		var dup *domain.ErrDuplicate
		if !errors.As(err, &dup) {
			break
		}
		if attempt == maxKeyAttempts {
			return nil, &domain.ErrConflict{Message: "could not allocate a unique bank account key"}
		}
		s.logger.Warn("bank account key collision, retrying",
			zap.String("key", dup.Key),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank account created",
		zap.String("user_id", userID),
		zap.String("bank_account_id", account.ID),
	)
	return account, nil
}

// List returns the user's accounts with their current balances.
func (s *AccountsService) List(ctx context.Context, userID string) ([]domain.BankAccountView, error) {
	ctx, span := ledgerTracer.Start(ctx, "AccountsService.List")
	defer span.End()

	accounts, err := s.store.ListBankAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.BankAccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, domain.BankAccountView{
			BankAccount:    accounts[i].BankAccount,
			CurrentBalance: accounts[i].CurrentBalance(),
		})
	}
	return views, nil
}

// FindByKey resolves a short account key to the account and its owner.
func (s *AccountsService) FindByKey(ctx context.Context, key string) (*domain.BankAccountOwnerView, error) {
	ctx, span := ledgerTracer.Start(ctx, "AccountsService.FindByKey")
	defer span.End()

	if err := requireText("bankAccountKey", key); err != nil {
		return nil, err
	}
	return s.store.GetBankAccountByKey(ctx, key)
}

func (s *AccountsService) Update(ctx context.Context, userID, accountID string, req *domain.UpdateBankAccountRequest) (*domain.BankAccount, error) {
	ctx, span := ledgerTracer.Start(ctx, "AccountsService.Update")
	defer span.End()

	if err := s.ownership.Validate(ctx, userID, domain.EntityBankAccount, accountID); err != nil {
		return nil, err
	}
	if err := validateBankAccountRequest(req); err != nil {
		return nil, err
	}
	return s.store.UpdateBankAccount(ctx, accountID, req)
}

func (s *AccountsService) Remove(ctx context.Context, userID, accountID string) error {
	ctx, span := ledgerTracer.Start(ctx, "AccountsService.Remove")
	defer span.End()

	if err := s.ownership.Validate(ctx, userID, domain.EntityBankAccount, accountID); err != nil {
		return err
	}
	if err := s.store.DeleteBankAccount(ctx, accountID); err != nil {
		return err
	}

	s.logger.Info("bank account removed",
		zap.String("user_id", userID),
		zap.String("bank_account_id", accountID),
	)
	return nil
}
