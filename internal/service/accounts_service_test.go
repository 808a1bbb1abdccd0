package service_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"go.uber.org/zap"
)

func TestAccountsService_CreateListAndFindByKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ana := mustUser(t, s, "ana")
	svc := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(7)), zap.NewNop())

	acc, err := svc.Create(ctx, ana.ID, &domain.CreateBankAccountRequest{
		Name:           "Nubank",
		InitialBalance: dec("100"),
		Type:           domain.BankAccountChecking,
		Color:          "#7950F2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(acc.BankAccountKey) != 6 {
		t.Errorf("key = %q, want 6 characters", acc.BankAccountKey)
	}

	mustTx(t, s, ana.ID, acc.ID, domain.TransactionIncome, "50")
	mustTx(t, s, ana.ID, acc.ID, domain.TransactionExpense, "20")

	views, err := svc.List(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || !views[0].CurrentBalance.Equal(dec("130")) {
		t.Fatalf("views = %+v, want one account with balance 130", views)
	}

	found, err := svc.FindByKey(ctx, acc.BankAccountKey)
	if err != nil {
		t.Fatalf("find by key: %v", err)
	}
	if found.ID != acc.ID || found.User.Name != "ana" {
		t.Errorf("found = %+v", found)
	}
}

func TestAccountsService_CreateValidation(t *testing.T) {
	s := newStore(t)
	svc := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(1)), zap.NewNop())

	tests := []struct {
		name  string
		req   domain.CreateBankAccountRequest
		field string
	}{
		{"empty name", domain.CreateBankAccountRequest{Type: domain.BankAccountCash, Color: "#fff"}, "name"},
		{"bad type", domain.CreateBankAccountRequest{Name: "x", Type: "SAVINGS", Color: "#fff"}, "type"},
		{"bad color", domain.CreateBankAccountRequest{Name: "x", Type: domain.BankAccountCash, Color: "red"}, "color"},
		{"sub-cent balance", domain.CreateBankAccountRequest{Name: "x", Type: domain.BankAccountCash, Color: "#fff", InitialBalance: dec("10.005")}, "initialBalance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user", &tt.req)
			var v *domain.ErrValidation
			if !errors.As(err, &v) || v.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestAccountsService_UpdateAndRemoveChecksOwnership(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ana := mustUser(t, s, "ana")
	bia := mustUser(t, s, "bia")
	acc := mustAccount(t, s, ana.ID, "1A1A1A", "10")
	mustTx(t, s, ana.ID, acc.ID, domain.TransactionIncome, "5")
	svc := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(1)), zap.NewNop())

	req := &domain.UpdateBankAccountRequest{Name: "Inter", InitialBalance: dec("20"), Type: domain.BankAccountInvestment, Color: "#FF8800"}

	var nf *domain.ErrNotFound
	if _, err := svc.Update(ctx, bia.ID, acc.ID, req); !errors.As(err, &nf) {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
	updated, err := svc.Update(ctx, ana.ID, acc.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Inter" || updated.Type != domain.BankAccountInvestment {
		t.Errorf("updated = %+v", updated)
	}

	if err := svc.Remove(ctx, bia.ID, acc.ID); !errors.As(err, &nf) {
		t.Fatalf("foreign remove: expected ErrNotFound, got %v", err)
	}
	if err := svc.Remove(ctx, ana.ID, acc.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	views, err := svc.List(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("accounts left = %d", len(views))
	}
}

func TestAccountsService_CreateRetriesOnKeyCollision(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ana := mustUser(t, s, "ana")
	req := &domain.CreateBankAccountRequest{Name: "Conta", Type: domain.BankAccountChecking, Color: "#000"}

	// Both services draw the same key sequence from identically seeded sources.
	first := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(42)), zap.NewNop())
	second := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(42)), zap.NewNop())

	a, err := first.Create(ctx, ana.ID, req)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	b, err := second.Create(ctx, ana.ID, req)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if a.BankAccountKey == b.BankAccountKey {
		t.Fatalf("keys collide: %s", a.BankAccountKey)
	}

	found, err := second.FindByKey(ctx, a.BankAccountKey)
	if err != nil {
		t.Fatalf("find by key: %v", err)
	}
	if found.ID != a.ID {
		t.Errorf("key %s resolved to %s, want %s", a.BankAccountKey, found.ID, a.ID)
	}
}

func TestAccountsService_CreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ana := mustUser(t, s, "ana")
	req := &domain.CreateBankAccountRequest{Name: "Conta", Type: domain.BankAccountChecking, Color: "#000"}

	seeder := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(42)), zap.NewNop())
	for i := 0; i < 5; i++ {
		if _, err := seeder.Create(ctx, ana.ID, req); err != nil {
			t.Fatalf("seed create: %v", err)
		}
	}

	late := service.NewAccountsService(s, service.NewOwnershipChecker(s), rand.New(rand.NewSource(42)), zap.NewNop())
	_, err := late.Create(ctx, ana.ID, req)

	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
