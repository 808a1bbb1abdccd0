package handler

import (
	"net/http"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Bank account handlers
// ============================================================

func listBankAccountsHandler(svc *service.AccountsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bank-accounts")
		defer span.End()

		accounts, err := svc.List(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func createBankAccountHandler(svc *service.AccountsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bank-accounts")
		defer span.End()

		var req domain.CreateBankAccountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		account, err := svc.Create(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	}
}

func findBankAccountByKeyHandler(svc *service.AccountsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bank-accounts/key/{key}")
		defer span.End()

		account, err := svc.FindByKey(ctx, chi.URLParam(r, "key"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func updateBankAccountHandler(svc *service.AccountsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/bank-accounts/{bankAccountId}")
		defer span.End()

		var req domain.UpdateBankAccountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		account, err := svc.Update(ctx, UserIDFromContext(ctx), chi.URLParam(r, "bankAccountId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func deleteBankAccountHandler(svc *service.AccountsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/bank-accounts/{bankAccountId}")
		defer span.End()

		if err := svc.Remove(ctx, UserIDFromContext(ctx), chi.URLParam(r, "bankAccountId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
