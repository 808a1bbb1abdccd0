package domain

import "time"

// ============================================================
// Transfers
// ============================================================

// IncomingTransferPrefix names the credit leg of a transfer.
const IncomingTransferPrefix = "Transferência de entrada - "

// TransferSuccessMessage is returned with every completed transfer.
const TransferSuccessMessage = "Transferência realizada com sucesso!"

// TransferRequest is the body for POST /v1/transactions/transfer.
type TransferRequest struct {
	FromBankAccountID string    `json:"fromBankAccountId"`
	ToBankAccountID   string    `json:"toBankAccountId"`
	Name              string    `json:"name"`
	Amount            Money     `json:"amount"`
	Date              time.Time `json:"date"`
	PaymentID         string    `json:"paymentId,omitempty"`
}

// TransferResult carries both legs of a completed transfer.
type TransferResult struct {
	Message    string       `json:"message"`
	PaymentID  string       `json:"paymentId"`
	ReceiptKey string       `json:"receiptKey"`
	Expense    *Transaction `json:"dataExpense"`
	Income     *Transaction `json:"dataIncome"`
}

// ReceiptData is everything printed on a transfer receipt.
type ReceiptData struct {
	Name              string
	Amount            Money
	Date              time.Time
	FromBankAccountID string
	ToBankAccountID   string
	PaymentID         string
}

// SignedURL is a time-limited link to a stored receipt.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReceiptFileRequest is the body for PUT /v1/transactions/file.
type ReceiptFileRequest struct {
	FileName string `json:"fileName"`
}

// ============================================================
// Ownership
// ============================================================

// EntityKind tags the entity an ownership check is about.
type EntityKind string

const (
	EntityBankAccount EntityKind = "bank_account"
	EntityCategory    EntityKind = "category"
	EntityTransaction EntityKind = "transaction"
	EntityReceipt     EntityKind = "receipt"
)

// EntityRef names one entity to validate.
type EntityRef struct {
	Kind EntityKind
	ID   string
}
