package handler

import (
	"net/http"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"go.uber.org/zap"
)

func listCategoriesHandler(svc *service.CategoriesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/categories")
		defer span.End()

		categories, err := svc.List(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func createCategoryHandler(svc *service.CategoriesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/categories")
		defer span.End()

		var req domain.CreateCategoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		category, err := svc.Create(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, category)
	}
}
