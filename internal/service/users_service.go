package service

import (
	"context"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"
)

type UsersService struct {
	store port.UserStore
}

func NewUsersService(store port.UserStore) *UsersService {
	return &UsersService{store: store}
}

// Me returns the public profile of the authenticated user.
func (s *UsersService) Me(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := ledgerTracer.Start(ctx, "UsersService.Me")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.UserProfile{Name: user.Name, Email: user.Email}, nil
}
