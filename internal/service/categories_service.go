package service

import (
	"context"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/port"
)

// CategoriesService lists and creates transaction categories.
type CategoriesService struct {
	store port.CategoryStore
}

func NewCategoriesService(store port.CategoryStore) *CategoriesService {
	return &CategoriesService{store: store}
}

func (s *CategoriesService) List(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := ledgerTracer.Start(ctx, "CategoriesService.List")
	defer span.End()

	return s.store.ListCategories(ctx, userID)
}

func (s *CategoriesService) Create(ctx context.Context, userID string, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	ctx, span := ledgerTracer.Start(ctx, "CategoriesService.Create")
	defer span.End()

	if err := firstError(
		requireText("name", req.Name),
		requireText("icon", req.Icon),
		requireTransactionType("type", req.Type),
	); err != nil {
		return nil, err
	}

	return s.store.CreateCategory(ctx, &domain.Category{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Type:   req.Type,
	})
}

func seedDefaultCategories(ctx context.Context, store port.CategoryStore, userID string) error {
	for _, c := range domain.DefaultCategories {
		if _, err := store.CreateCategory(ctx, &domain.Category{
			UserID: userID,
			Name:   c.Name,
			Icon:   c.Icon,
			Type:   c.Type,
		}); err != nil {
			return err
		}
	}
	return nil
}
