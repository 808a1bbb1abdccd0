package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/store"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Fakes
// ============================================================

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, content []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = content
	return nil
}

func (f *fakeObjectStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://storage.test/" + key + "?ttl=" + ttl.String(), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeRenderer struct {
	last domain.ReceiptData
}

func (r *fakeRenderer) Render(data domain.ReceiptData) ([]byte, error) {
	r.last = data
	return []byte("%PDF-1.3 " + data.PaymentID), nil
}

// failingIncomeStore lets the expense leg through and fails the income leg,
// leaving the surrounding database transaction to roll back.
type failingIncomeStore struct {
	port.LedgerStore
}

func (f failingIncomeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.LedgerStore) error) error {
	return f.LedgerStore.WithinTx(ctx, func(ctx context.Context, tx port.LedgerStore) error {
		return fn(ctx, failingIncomeTx{tx})
	})
}

type failingIncomeTx struct {
	port.LedgerStore
}

func (f failingIncomeTx) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.Type == domain.TransactionIncome {
		return nil, errors.New("disk full")
	}
	return f.LedgerStore.CreateTransaction(ctx, tx)
}

// ============================================================
// Fixtures
// ============================================================

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) domain.Money { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func mustUser(t *testing.T, s port.UserStore, name string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustAccount(t *testing.T, s port.BankAccountStore, userID, key, initial string) *domain.BankAccount {
	t.Helper()
	a, err := s.CreateBankAccount(context.Background(), &domain.BankAccount{
		UserID:         userID,
		Name:           "Conta " + key,
		Color:          "#000000",
		Type:           domain.BankAccountChecking,
		InitialBalance: dec(initial),
		BankAccountKey: key,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func mustCategory(t *testing.T, s port.CategoryStore, userID string, typ domain.TransactionType) *domain.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), &domain.Category{UserID: userID, Name: "Cat", Icon: "other", Type: typ})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func mustTx(t *testing.T, s port.TransactionStore, userID, accountID string, typ domain.TransactionType, value string) {
	t.Helper()
	if _, err := s.CreateTransaction(context.Background(), &domain.Transaction{
		UserID:        userID,
		BankAccountID: accountID,
		Name:          "seed",
		Value:         dec(value),
		Date:          day(2024, time.March, 1),
		Type:          typ,
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func countTransactions(t *testing.T, s port.TransactionStore, userID string) int {
	t.Helper()
	txs, err := s.ListTransactions(context.Background(), userID, domain.TransactionFilter{Month: 2, Year: 2024})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return len(txs)
}
