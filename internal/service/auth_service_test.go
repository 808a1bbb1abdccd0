package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-with-enough-entropy"

func TestAuthService_SignUpSignInAndMe(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	auth := service.NewAuthService(s, testSecret, time.Hour, zap.NewNop()).WithBcryptCost(bcrypt.MinCost)

	res, err := auth.SignUp(ctx, &domain.SignUpRequest{Name: "Ana", Email: "Ana@Example.com", Password: "s3nha-forte"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if res.AccessToken == "" || res.ExpiresIn != 3600 {
		t.Errorf("response = %+v", res)
	}

	claims, err := auth.ValidateAccessToken(res.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	userID := claims.Subject

	categories, err := service.NewCategoriesService(s).List(ctx, userID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != len(domain.DefaultCategories) {
		t.Errorf("seeded categories = %d, want %d", len(categories), len(domain.DefaultCategories))
	}

	if _, err := auth.SignIn(ctx, &domain.SignInRequest{Email: "ana@example.com", Password: "s3nha-forte"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	me, err := service.NewUsersService(s).Me(ctx, userID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Name != "Ana" || me.Email != "ana@example.com" {
		t.Errorf("me = %+v", me)
	}
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	s := newStore(t)
	auth := service.NewAuthService(s, testSecret, time.Hour, zap.NewNop()).WithBcryptCost(bcrypt.MinCost)
	req := &domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "s3nha-forte"}

	if _, err := auth.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := auth.SignUp(context.Background(), req)

	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_SignInRejectsBadCredentials(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	auth := service.NewAuthService(s, testSecret, time.Hour, zap.NewNop()).WithBcryptCost(bcrypt.MinCost)
	if _, err := auth.SignUp(ctx, &domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "s3nha-forte"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	for _, req := range []*domain.SignInRequest{
		{Email: "ana@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "s3nha-forte"},
	} {
		_, err := auth.SignIn(ctx, req)
		var unauthorized *domain.ErrUnauthorized
		if !errors.As(err, &unauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", req.Email, err)
		}
	}
}

func TestAuthService_ValidateAccessTokenRejectsForeignSecret(t *testing.T) {
	s := newStore(t)
	issuer := service.NewAuthService(s, "another-secret", time.Hour, zap.NewNop()).WithBcryptCost(bcrypt.MinCost)
	res, err := issuer.SignUp(context.Background(), &domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "s3nha-forte"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	verifier := service.NewAuthService(s, testSecret, time.Hour, zap.NewNop())
	_, err = verifier.ValidateAccessToken(res.AccessToken)

	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_SignUpValidation(t *testing.T) {
	s := newStore(t)
	auth := service.NewAuthService(s, testSecret, time.Hour, zap.NewNop()).WithBcryptCost(bcrypt.MinCost)

	tests := []struct {
		req   domain.SignUpRequest
		field string
	}{
		{domain.SignUpRequest{Email: "a@b.com", Password: "12345678"}, "name"},
		{domain.SignUpRequest{Name: "A", Email: "not-an-email", Password: "12345678"}, "email"},
		{domain.SignUpRequest{Name: "A", Email: "a@b.com", Password: "short"}, "password"},
	}
	for _, tt := range tests {
		_, err := auth.SignUp(context.Background(), &tt.req)
		var v *domain.ErrValidation
		if !errors.As(err, &v) || v.Field != tt.field {
			t.Errorf("expected validation error on %s, got %v", tt.field, err)
		}
	}
}
