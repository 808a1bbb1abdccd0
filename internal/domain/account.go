package domain

import "time"

// ============================================================
// Bank accounts
// ============================================================

// BankAccountType enumerates the kinds of account a user can hold.
type BankAccountType string

const (
	BankAccountChecking   BankAccountType = "CHECKING"
	BankAccountInvestment BankAccountType = "INVESTMENT"
	BankAccountCash       BankAccountType = "CASH"
)

// Valid reports whether t is a known account type.
func (t BankAccountType) Valid() bool {
	switch t {
	case BankAccountChecking, BankAccountInvestment, BankAccountCash:
		return true
	}
	return false
}

// BankAccount is a user-owned account. Its current balance is never stored.
type BankAccount struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	Color          string          `json:"color"`
	Type           BankAccountType `json:"type"`
	InitialBalance Money           `json:"initialBalance"`
	BankAccountKey string          `json:"bankAccountKey,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BankAccountWithLedger is an account loaded together with all of its transactions.
type BankAccountWithLedger struct {
	BankAccount
	Transactions []Transaction `json:"transactions"`
}

// CurrentBalance derives the balance from the loaded ledger.
func (a *BankAccountWithLedger) CurrentBalance() Money {
	return CurrentBalance(a.InitialBalance, a.Transactions)
}

// BankAccountView is the listing projection: account plus derived balance.
type BankAccountView struct {
	BankAccount
	CurrentBalance Money `json:"currentBalance"`
}

// BankAccountOwnerView is returned by the lookup-by-key operation.
type BankAccountOwnerView struct {
	BankAccount
	User UserProfile `json:"user"`
}

// CreateBankAccountRequest is the body for POST /v1/bank-accounts.
type CreateBankAccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance Money           `json:"initialBalance"`
	Type           BankAccountType `json:"type"`
	Color          string          `json:"color"`
}

// UpdateBankAccountRequest is the body for PUT /v1/bank-accounts/{bankAccountId}.
type UpdateBankAccountRequest = CreateBankAccountRequest
