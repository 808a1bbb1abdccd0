package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/lock"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/observability"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"go.uber.org/zap"
)

type transferEnv struct {
	store    port.LedgerStore
	objects  *fakeObjectStore
	renderer *fakeRenderer
	metrics  *observability.Metrics
	svc      *service.TransferService
	receipts *service.ReceiptStorage

	ana, bia *domain.User
	src, dst *domain.BankAccount
}

// newTransferEnv seeds Ana's source account with a balance of 130
// (100 initial + 50 income - 20 expense) and Bia's destination with 0.
func newTransferEnv(t *testing.T, wrap func(port.LedgerStore) port.LedgerStore) *transferEnv {
	t.Helper()
	s := newStore(t)
	env := &transferEnv{
		objects:  newFakeObjectStore(),
		renderer: &fakeRenderer{},
		metrics:  observability.NewMetrics(),
	}
	env.ana = mustUser(t, s, "ana")
	env.bia = mustUser(t, s, "bia")
	env.src = mustAccount(t, s, env.ana.ID, "1A1A1A", "100")
	env.dst = mustAccount(t, s, env.bia.ID, "2B2B2B", "0")
	mustTx(t, s, env.ana.ID, env.src.ID, domain.TransactionIncome, "50")
	mustTx(t, s, env.ana.ID, env.src.ID, domain.TransactionExpense, "20")

	env.store = s
	if wrap != nil {
		env.store = wrap(s)
	}
	ownership := service.NewOwnershipChecker(s)
	env.receipts = service.NewReceiptStorage(env.objects, ownership, time.Minute, zap.NewNop())
	env.svc = service.NewTransferService(env.store, env.receipts, env.renderer, lock.NewLocal(), env.metrics, zap.NewNop())
	return env
}

func (e *transferEnv) request(amount string) *domain.TransferRequest {
	return &domain.TransferRequest{
		FromBankAccountID: e.src.ID,
		ToBankAccountID:   e.dst.ID,
		Name:              "Aluguel",
		Amount:            dec(amount),
		Date:              day(2024, time.March, 10),
	}
}

func balanceOf(t *testing.T, s port.BankAccountStore, accountID string) domain.Money {
	t.Helper()
	a, err := s.GetBankAccount(context.Background(), "", accountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return a.CurrentBalance()
}

func TestTransfer_MovesMoneyBetweenAccounts(t *testing.T) {
	env := newTransferEnv(t, nil)
	ctx := context.Background()

	res, err := env.svc.Transfer(ctx, env.ana.ID, env.request("50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Message != domain.TransferSuccessMessage {
		t.Errorf("message = %q", res.Message)
	}
	if got := balanceOf(t, env.store, env.src.ID); !got.Equal(dec("80")) {
		t.Errorf("source balance = %s, want 80", got)
	}
	if got := balanceOf(t, env.store, env.dst.ID); !got.Equal(dec("50")) {
		t.Errorf("destination balance = %s, want 50", got)
	}

	if res.Expense.Type != domain.TransactionExpense || res.Income.Type != domain.TransactionIncome {
		t.Errorf("leg types = %s/%s", res.Expense.Type, res.Income.Type)
	}
	if *res.Expense.PaymentID != res.PaymentID || *res.Income.PaymentID != res.PaymentID {
		t.Error("both legs must share the payment id")
	}
	if !res.Expense.IsTransfer || !res.Income.IsTransfer {
		t.Error("both legs must be flagged as transfers")
	}
	if res.Income.UserID != env.bia.ID {
		t.Errorf("income leg owner = %s, want destination owner", res.Income.UserID)
	}
	if res.Income.Name != "Transferência de entrada - Aluguel" {
		t.Errorf("income name = %q", res.Income.Name)
	}
	if res.Expense.ReceiptKey == nil || *res.Expense.ReceiptKey != res.ReceiptKey {
		t.Error("expense leg must carry the receipt key")
	}
	if !strings.HasPrefix(res.ReceiptKey, service.TransferUploadsPrefix) {
		t.Errorf("receipt key %q not under %q", res.ReceiptKey, service.TransferUploadsPrefix)
	}
	if env.objects.count() != 1 {
		t.Errorf("stored objects = %d, want 1", env.objects.count())
	}
	if env.renderer.last.PaymentID != res.PaymentID || !env.renderer.last.Amount.Equal(dec("50")) {
		t.Errorf("receipt rendered with %+v", env.renderer.last)
	}
	if got := env.metrics.TransferCount(service.OutcomeCompleted); got != 1 {
		t.Errorf("completed transfers = %v", got)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	env := newTransferEnv(t, nil)

	_, err := env.svc.Transfer(context.Background(), env.ana.ID, env.request("200"))

	var insufficient *domain.ErrInsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if !insufficient.Available.Equal(dec("130")) {
		t.Errorf("available = %s, want 130", insufficient.Available)
	}
	if n := countTransactions(t, env.store, env.ana.ID); n != 2 {
		t.Errorf("transactions = %d, want the 2 seeded", n)
	}
	if env.objects.count() != 0 {
		t.Error("no receipt should be uploaded")
	}
	if got := env.metrics.TransferCount(service.OutcomeInsufficientFunds); got != 1 {
		t.Errorf("insufficient_funds transfers = %v", got)
	}
}

func TestTransfer_ExactBalanceIsAllowed(t *testing.T) {
	env := newTransferEnv(t, nil)

	if _, err := env.svc.Transfer(context.Background(), env.ana.ID, env.request("130")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := balanceOf(t, env.store, env.src.ID); !got.IsZero() {
		t.Errorf("source balance = %s, want 0", got)
	}
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	env := newTransferEnv(t, nil)
	req := env.request("10")
	req.ToBankAccountID = req.FromBankAccountID

	_, err := env.svc.Transfer(context.Background(), env.ana.ID, req)

	var invalid *domain.ErrInvalidOperation
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if n := countTransactions(t, env.store, env.ana.ID); n != 2 {
		t.Errorf("transactions = %d, want 2", n)
	}
}

func TestTransfer_Validation(t *testing.T) {
	env := newTransferEnv(t, nil)

	tests := []struct {
		name   string
		mutate func(*domain.TransferRequest)
		field  string
	}{
		{"empty name", func(r *domain.TransferRequest) { r.Name = " " }, "name"},
		{"zero amount", func(r *domain.TransferRequest) { r.Amount = dec("0") }, "amount"},
		{"negative amount", func(r *domain.TransferRequest) { r.Amount = dec("-5") }, "amount"},
		{"sub-cent amount", func(r *domain.TransferRequest) { r.Amount = dec("0.004") }, "amount"},
		{"missing date", func(r *domain.TransferRequest) { r.Date = time.Time{} }, "date"},
		{"bad source id", func(r *domain.TransferRequest) { r.FromBankAccountID = "nope" }, "fromBankAccountId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := env.request("10")
			tt.mutate(req)
			_, err := env.svc.Transfer(context.Background(), env.ana.ID, req)
			var v *domain.ErrValidation
			if !errors.As(err, &v) || v.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}

	if n := countTransactions(t, env.store, env.ana.ID); n != 2 {
		t.Errorf("transactions = %d, want the 2 seeded", n)
	}
	if env.objects.count() != 0 {
		t.Error("no receipt should be uploaded")
	}
}

func TestTransfer_ForeignSourceIsNotFound(t *testing.T) {
	env := newTransferEnv(t, nil)

	_, err := env.svc.Transfer(context.Background(), env.bia.ID, env.request("10"))

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransfer_UnknownDestinationIsNotFound(t *testing.T) {
	env := newTransferEnv(t, nil)
	req := env.request("10")
	req.ToBankAccountID = "8f14e45f-ceea-467f-a0e6-7c5b2b4d0c11"

	_, err := env.svc.Transfer(context.Background(), env.ana.ID, req)

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if env.objects.count() != 0 {
		t.Error("no receipt should be uploaded")
	}
}

func TestTransfer_DuplicatePaymentID(t *testing.T) {
	env := newTransferEnv(t, nil)
	req := env.request("10")
	req.PaymentID = "pay-123"

	if _, err := env.svc.Transfer(context.Background(), env.ana.ID, req); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	_, err := env.svc.Transfer(context.Background(), env.ana.ID, req)

	var dup *domain.ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if got := balanceOf(t, env.store, env.src.ID); !got.Equal(dec("120")) {
		t.Errorf("source balance = %s, want 120", got)
	}
}

func TestTransfer_CompensatesReceiptWhenInsertFails(t *testing.T) {
	env := newTransferEnv(t, func(s port.LedgerStore) port.LedgerStore {
		return failingIncomeStore{s}
	})

	_, err := env.svc.Transfer(context.Background(), env.ana.ID, env.request("50"))
	if err == nil {
		t.Fatal("expected error")
	}

	if env.objects.count() != 0 {
		t.Errorf("receipt left behind: %d objects", env.objects.count())
	}
	if len(env.objects.deleted) != 1 {
		t.Errorf("deletes = %d, want 1", len(env.objects.deleted))
	}
	if got := balanceOf(t, env.store, env.src.ID); !got.Equal(dec("130")) {
		t.Errorf("source balance = %s, want untouched 130", got)
	}
	if got := env.metrics.TransferCount(service.OutcomeFailed); got != 1 {
		t.Errorf("failed transfers = %v", got)
	}
}

func TestTransfer_UploadFailureInsertsNothing(t *testing.T) {
	env := newTransferEnv(t, nil)
	env.objects.putErr = &domain.ErrExternalService{Service: "gcs", Err: errors.New("503")}

	_, err := env.svc.Transfer(context.Background(), env.ana.ID, env.request("50"))

	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if n := countTransactions(t, env.store, env.ana.ID); n != 2 {
		t.Errorf("transactions = %d, want 2", n)
	}
}

func TestTransfer_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	env := newTransferEnv(t, nil)

	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() {
			_, err := env.svc.Transfer(context.Background(), env.ana.ID, env.request("60"))
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < 3; i++ {
		if err := <-errs; err == nil {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", succeeded)
	}
	if got := balanceOf(t, env.store, env.src.ID); got.IsNegative() {
		t.Errorf("source balance went negative: %s", got)
	}
}

func TestReceiptStorage_SignedURLRequiresOwnership(t *testing.T) {
	env := newTransferEnv(t, nil)
	ctx := context.Background()

	res, err := env.svc.Transfer(ctx, env.ana.ID, env.request("10"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	link, err := env.receipts.SignedURL(ctx, env.ana.ID, res.ReceiptKey)
	if err != nil {
		t.Fatalf("owner signed url: %v", err)
	}
	if !strings.Contains(link.URL, res.ReceiptKey) {
		t.Errorf("url %q does not reference key", link.URL)
	}
	if d := time.Until(link.ExpiresAt); d <= 0 || d > time.Minute {
		t.Errorf("expiresAt %v not within the ttl", link.ExpiresAt)
	}

	_, err = env.receipts.SignedURL(ctx, env.bia.ID, res.ReceiptKey)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestReceiptStorage_RejectsEmptyTransferReceipt(t *testing.T) {
	env := newTransferEnv(t, nil)

	_, err := env.receipts.Upload(context.Background(), "comprovante.pdf", nil, true)

	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
