// Package service provides the business logic layer (use cases) of the
// ledger: accounts, categories, transactions, transfers and receipts.
package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var ledgerTracer = otel.Tracer("service/ledger")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ============================================================
// Shared validation helpers
// ============================================================

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &domain.ErrValidation{Field: field, Message: "required"}
	}
	return nil
}

func requireUUID(field, value string) error {
	if value == "" {
		return &domain.ErrValidation{Field: field, Message: "required"}
	}
	if _, err := uuid.Parse(value); err != nil {
		return &domain.ErrValidation{Field: field, Message: "must be a UUID"}
	}
	return nil
}

func requirePositive(field string, value domain.Money) error {
	if !value.IsPositive() {
		return &domain.ErrValidation{Field: field, Message: "must be positive"}
	}
	return requireCents(field, value)
}

// requireCents rejects amounts the numeric(14,2) columns would round.
func requireCents(field string, value domain.Money) error {
	if !value.Equal(value.Truncate(2)) {
		return &domain.ErrValidation{Field: field, Message: "must have at most 2 decimal places"}
	}
	return nil
}

func requireDate(field string, value time.Time) error {
	if value.IsZero() {
		return &domain.ErrValidation{Field: field, Message: "required"}
	}
	return nil
}

func requireTransactionType(field string, t domain.TransactionType) error {
	if !t.Valid() {
		return &domain.ErrValidation{Field: field, Message: fmt.Sprintf("must be %s or %s", domain.TransactionIncome, domain.TransactionExpense)}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
