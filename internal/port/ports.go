// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the relational store, object storage, locks and the PDF renderer.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
)

// UserStore reads and creates users.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// BankAccountStore handles bank account data operations.
type BankAccountStore interface {
	CreateBankAccount(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID string) ([]domain.BankAccountWithLedger, error)
	// GetBankAccount loads an account with its ledger. An empty userID
	// disables the owner filter.
	GetBankAccount(ctx context.Context, userID, accountID string) (*domain.BankAccountWithLedger, error)
	GetBankAccountByKey(ctx context.Context, key string) (*domain.BankAccountOwnerView, error)
	UpdateBankAccount(ctx context.Context, accountID string, req *domain.UpdateBankAccountRequest) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, accountID string) error
}

// CategoryStore handles category data operations.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// TransactionStore handles transaction rows.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req *domain.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	PaymentIDExists(ctx context.Context, userID, paymentID string) (bool, error)
}

// OwnershipStore answers whether an entity of the given kind belongs to a user.
type OwnershipStore interface {
	Owns(ctx context.Context, userID string, kind domain.EntityKind, id string) (bool, error)
}

// LedgerStore is the full relational store.
type LedgerStore interface {
	UserStore
	BankAccountStore
	CategoryStore
	TransactionStore
	OwnershipStore

	// WithinTx runs fn against a store bound to a single database
	// transaction. Any error returned by fn rolls every write back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerStore) error) error
	Ping(ctx context.Context) error
}

// ObjectStore persists binary blobs and issues signed links to them.
type ObjectStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ReceiptRenderer produces the binary receipt document for a transfer.
type ReceiptRenderer interface {
	Render(data domain.ReceiptData) ([]byte, error)
}

// Locker serializes work on a key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
