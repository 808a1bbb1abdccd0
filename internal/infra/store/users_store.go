package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Users
// ============================================================

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateUser")
	defer span.End()

	rec := &userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.ErrConflict{Message: "email already in use"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByID")
	defer span.End()

	var rec userRecord
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Store.GetUserByEmail")
	defer span.End()

	var rec userRecord
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return rec.toDomain(), nil
}
