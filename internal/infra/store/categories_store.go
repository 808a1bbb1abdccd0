package store

import (
	"context"
	"fmt"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Categories
// ============================================================

func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateCategory")
	defer span.End()

	rec := &categoryRecord{
		ID:     category.ID,
		UserID: category.UserID,
		Name:   category.Name,
		Icon:   category.Icon,
		Type:   string(category.Type),
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	out := rec.toDomain()
	return &out, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Store.ListCategories")
	defer span.End()

	var recs []categoryRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("type, name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]domain.Category, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}
