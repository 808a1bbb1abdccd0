package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/observability"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Transfer outcomes recorded in ledger_transfers_total.
const (
	OutcomeCompleted         = "completed"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeNotFound          = "not_found"
	OutcomeRejected          = "rejected"
	OutcomeFailed            = "failed"
)

// TransferService moves money between two bank accounts. A transfer is two
// ledger rows sharing one paymentId plus a stored PDF receipt.
type TransferService struct {
	store    port.LedgerStore
	receipts *ReceiptStorage
	renderer port.ReceiptRenderer
	locker   port.Locker
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewTransferService(
	store port.LedgerStore,
	receipts *ReceiptStorage,
	renderer port.ReceiptRenderer,
	locker port.Locker,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		store:    store,
		receipts: receipts,
		renderer: renderer,
		locker:   locker,
		metrics:  metrics,
		logger:   logger,
	}
}

func validateTransfer(req *domain.TransferRequest) error {
	if err := firstError(
		requireUUID("fromBankAccountId", req.FromBankAccountID),
		requireUUID("toBankAccountId", req.ToBankAccountID),
		requireText("name", req.Name),
		requirePositive("amount", req.Amount),
		requireDate("date", req.Date),
	); err != nil {
		return err
	}
	if req.FromBankAccountID == req.ToBankAccountID {
		return &domain.ErrInvalidOperation{Operation: "transfer", Reason: "source and destination accounts are the same"}
	}
	return nil
}

// Transfer executes req on behalf of userID.
func (s *TransferService) Transfer(ctx context.Context, userID string, req *domain.TransferRequest) (result *domain.TransferResult, err error) {
	ctx, span := ledgerTracer.Start(ctx, "TransferService.Transfer")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("transfer.from", req.FromBankAccountID),
		attribute.String("transfer.to", req.ToBankAccountID),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("transfer", time.Since(start))
		outcome := transferOutcome(err)
		s.metrics.IncrTransfer(outcome)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			s.logger.Warn("transfer not completed",
				zap.String("user_id", userID),
				zap.String("outcome", outcome),
				zap.Error(err),
			)
		}
	}()

	if err := validateTransfer(req); err != nil {
		return nil, err
	}

	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = uuid.NewString()
	} else {
		exists, err := s.store.PaymentIDExists(ctx, userID, paymentID)
		if err != nil {
			return nil, fmt.Errorf("check payment id: %w", err)
		}
		if exists {
			return nil, &domain.ErrDuplicate{Key: paymentID}
		}
	}
	span.SetAttributes(attribute.String("transfer.payment_id", paymentID))

	unlock, err := s.locker.Lock(ctx, "bank-account:"+req.FromBankAccountID)
	if err != nil {
		return nil, fmt.Errorf("lock source account: %w", err)
	}
	defer unlock()

	source, err := s.store.GetBankAccount(ctx, userID, req.FromBankAccountID)
	if err != nil {
		return nil, err
	}
	if err := ensureFunds(source, req.Amount); err != nil {
		return nil, err
	}

	dest, err := s.store.GetBankAccount(ctx, "", req.ToBankAccountID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(domain.ReceiptData{
		Name:              req.Name,
		Amount:            req.Amount,
		Date:              req.Date,
		FromBankAccountID: req.FromBankAccountID,
		ToBankAccountID:   req.ToBankAccountID,
		PaymentID:         paymentID,
	})
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	s.metrics.ObserveReceiptSize(len(pdf))

	receiptKey, err := s.receipts.Upload(ctx, "comprovante-"+paymentID+".pdf", pdf, true)
	if err != nil {
		return nil, err
	}

	expense, income, err := s.insertLegs(ctx, userID, req, dest, paymentID, receiptKey)
	if err != nil {
		s.compensate(ctx, receiptKey)
		return nil, err
	}

	amount, _ := req.Amount.Float64()
	s.metrics.ObserveTransferAmount(amount)
	s.logger.Info("transfer completed",
		zap.String("user_id", userID),
		zap.String("payment_id", paymentID),
		zap.String("from", req.FromBankAccountID),
		zap.String("to", req.ToBankAccountID),
		zap.String("amount", req.Amount.StringFixed(2)),
	)

	return &domain.TransferResult{
		Message:    domain.TransferSuccessMessage,
		PaymentID:  paymentID,
		ReceiptKey: receiptKey,
		Expense:    expense,
		Income:     income,
	}, nil
}

func (s *TransferService) insertLegs(
	ctx context.Context,
	userID string,
	req *domain.TransferRequest,
	dest *domain.BankAccountWithLedger,
	paymentID, receiptKey string,
) (expense, income *domain.Transaction, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx port.LedgerStore) error {
		source, err := tx.GetBankAccount(ctx, userID, req.FromBankAccountID)
		if err != nil {
			return err
		}
		if err := ensureFunds(source, req.Amount); err != nil {
			return err
		}
		if req.PaymentID != "" {
			exists, err := tx.PaymentIDExists(ctx, userID, paymentID)
			if err != nil {
				return fmt.Errorf("check payment id: %w", err)
			}
			if exists {
				return &domain.ErrDuplicate{Key: paymentID}
			}
		}

		pid, key := paymentID, receiptKey
		expense, err = tx.CreateTransaction(ctx, &domain.Transaction{
			UserID:        userID,
			BankAccountID: req.FromBankAccountID,
			Name:          req.Name,
			Value:         req.Amount,
			Date:          req.Date,
			Type:          domain.TransactionExpense,
			IsTransfer:    true,
			PaymentID:     &pid,
			ReceiptKey:    &key,
		})
		if err != nil {
			return fmt.Errorf("insert expense leg: %w", err)
		}

		incomePID := paymentID
		income, err = tx.CreateTransaction(ctx, &domain.Transaction{
			UserID:        dest.UserID,
			BankAccountID: dest.ID,
			Name:          domain.IncomingTransferPrefix + req.Name,
			Value:         req.Amount,
			Date:          req.Date,
			Type:          domain.TransactionIncome,
			IsTransfer:    true,
			PaymentID:     &incomePID,
		})
		if err != nil {
			return fmt.Errorf("insert income leg: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return expense, income, nil
}

// compensate removes a receipt whose transfer never committed. It runs even
// when the request context is already cancelled.
func (s *TransferService) compensate(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.receipts.Delete(ctx, key); err != nil {
		s.logger.Error("receipt compensation failed, orphan object left behind",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("receipt compensated", zap.String("key", key))
}

func ensureFunds(account *domain.BankAccountWithLedger, amount domain.Money) error {
	balance := account.CurrentBalance()
	if amount.GreaterThan(balance) {
		return &domain.ErrInsufficientFunds{AccountID: account.ID, Available: balance, Required: amount}
	}
	return nil
}

func transferOutcome(err error) string {
	var (
		insufficient *domain.ErrInsufficientFunds
		notFound     *domain.ErrNotFound
		validation   *domain.ErrValidation
		invalidOp    *domain.ErrInvalidOperation
		duplicate    *domain.ErrDuplicate
	)
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.As(err, &insufficient):
		return OutcomeInsufficientFunds
	case errors.As(err, &notFound):
		return OutcomeNotFound
	case errors.As(err, &validation), errors.As(err, &invalidOp), errors.As(err, &duplicate):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
