package store

import (
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type categoryRecord struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);index;not null"`
	Name   string `gorm:"not null"`
	Icon   string `gorm:"not null"`
	Type   string `gorm:"type:varchar(16);not null"`
}

func (categoryRecord) TableName() string { return "categories" }

type bankAccountRecord struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `gorm:"type:varchar(36);index;not null"`
	Name           string          `gorm:"not null"`
	Color          string          `gorm:"type:varchar(16);not null"`
	Type           string          `gorm:"type:varchar(16);not null"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BankAccountKey string          `gorm:"type:varchar(16);uniqueIndex"`
	CreatedAt      time.Time

	User         userRecord          `gorm:"foreignKey:UserID"`
	Transactions []transactionRecord `gorm:"foreignKey:BankAccountID;constraint:OnDelete:CASCADE"`
}

func (bankAccountRecord) TableName() string { return "bank_accounts" }

type transactionRecord struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `gorm:"type:varchar(36);index;not null"`
	BankAccountID string          `gorm:"type:varchar(36);index;not null"`
	CategoryID    *string         `gorm:"type:varchar(36);index"`
	Name          string          `gorm:"not null"`
	Value         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Date          time.Time       `gorm:"index;not null"`
	Type          string          `gorm:"type:varchar(16);not null"`
	IsTransfer    bool            `gorm:"not null;default:false"`
	PaymentID     *string         `gorm:"type:varchar(64);index"`
	ReceiptKey    *string         `gorm:"index"`
	CreatedAt     time.Time

	Category *categoryRecord `gorm:"foreignKey:CategoryID"`
}

func (transactionRecord) TableName() string { return "transactions" }

// ============================================================
// Record ↔ domain mapping
// ============================================================

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *categoryRecord) toDomain() domain.Category {
	return domain.Category{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Icon:   r.Icon,
		Type:   domain.TransactionType(r.Type),
	}
}

func (r *bankAccountRecord) toDomain() domain.BankAccount {
	return domain.BankAccount{
		ID:             r.ID,
		UserID:         r.UserID,
		Name:           r.Name,
		Color:          r.Color,
		Type:           domain.BankAccountType(r.Type),
		InitialBalance: r.InitialBalance,
		BankAccountKey: r.BankAccountKey,
		CreatedAt:      r.CreatedAt,
	}
}

func (r *bankAccountRecord) toLedger() domain.BankAccountWithLedger {
	txs := make([]domain.Transaction, 0, len(r.Transactions))
	for i := range r.Transactions {
		txs = append(txs, r.Transactions[i].toDomain())
	}
	return domain.BankAccountWithLedger{BankAccount: r.toDomain(), Transactions: txs}
}

func (r *transactionRecord) toDomain() domain.Transaction {
	tx := domain.Transaction{
		ID:            r.ID,
		UserID:        r.UserID,
		BankAccountID: r.BankAccountID,
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Value:         r.Value,
		Date:          r.Date.UTC(),
		Type:          domain.TransactionType(r.Type),
		IsTransfer:    r.IsTransfer,
		PaymentID:     r.PaymentID,
		ReceiptKey:    r.ReceiptKey,
		CreatedAt:     r.CreatedAt,
	}
	if r.Category != nil {
		tx.Category = &domain.CategorySummary{ID: r.Category.ID, Name: r.Category.Name, Icon: r.Category.Icon}
	}
	return tx
}

func transactionFromDomain(tx *domain.Transaction) *transactionRecord {
	return &transactionRecord{
		ID:            tx.ID,
		UserID:        tx.UserID,
		BankAccountID: tx.BankAccountID,
		CategoryID:    tx.CategoryID,
		Name:          tx.Name,
		Value:         tx.Value,
		Date:          tx.Date.UTC(),
		Type:          string(tx.Type),
		IsTransfer:    tx.IsTransfer,
		PaymentID:     tx.PaymentID,
		ReceiptKey:    tx.ReceiptKey,
	}
}
