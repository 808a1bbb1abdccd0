// Package domain defines the core business entities of the ledger.
// These models are independent of the persistence and transport layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point monetary amount.
type Money = decimal.Decimal

// ============================================================
// Users
// ============================================================

// User is the owner of accounts, categories and transactions.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserProfile is the public projection of a user.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ============================================================
// Categories
// ============================================================

// Category classifies transactions.
type Category struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Name   string          `json:"name"`
	Icon   string          `json:"icon"`
	Type   TransactionType `json:"type"`
}

// CategorySummary is the category projection attached to listed transactions.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CreateCategoryRequest is the body for POST /v1/categories.
type CreateCategoryRequest struct {
	Name string          `json:"name"`
	Icon string          `json:"icon"`
	Type TransactionType `json:"type"`
}

// ============================================================
// Transactions
// ============================================================

// TransactionType is the direction of a transaction relative to its account.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is one ledger row.
type Transaction struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	BankAccountID string           `json:"bankAccountId"`
	CategoryID    *string          `json:"categoryId"`
	Name          string           `json:"name"`
	Value         Money            `json:"value"`
	Date          time.Time        `json:"date"`
	Type          TransactionType  `json:"type"`
	IsTransfer    bool             `json:"isTransfer"`
	PaymentID     *string          `json:"paymentId,omitempty"`
	ReceiptKey    *string          `json:"receiptKey,omitempty"`
	Category      *CategorySummary `json:"category,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// CreateTransactionRequest is the body for POST /v1/transactions.
type CreateTransactionRequest struct {
	BankAccountID string          `json:"bankAccountId"`
	CategoryID    string          `json:"categoryId"`
	Name          string          `json:"name"`
	Value         Money           `json:"value"`
	Date          time.Time       `json:"date"`
	Type          TransactionType `json:"type"`
}

// UpdateTransactionRequest is the body for PUT /v1/transactions/{transactionId}.
// Nil fields are left untouched.
type UpdateTransactionRequest struct {
	BankAccountID *string          `json:"bankAccountId"`
	CategoryID    *string          `json:"categoryId"`
	Name          *string          `json:"name"`
	Value         *Money           `json:"value"`
	Date          *time.Time       `json:"date"`
	Type          *TransactionType `json:"type"`
}

// TransactionFilter narrows a period listing. Month is zero-based (0 = January).
type TransactionFilter struct {
	Month         int
	Year          int
	BankAccountID string
	Type          TransactionType
}

// Period returns the half-open UTC interval [start, end) covered by the filter.
func (f TransactionFilter) Period() (start, end time.Time) {
	start = time.Date(f.Year, time.Month(f.Month+1), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(f.Year, time.Month(f.Month+2), 1, 0, 0, 0, 0, time.UTC)
	return start, end
}
