package handler

import (
	"net/http"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Transactions
// ============================================================

// GET /v1/transactions?month=2&year=2024&bankAccountId=...&type=EXPENSE
// month is zero-based.
func listTransactionsHandler(svc *service.TransactionsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions")
		defer span.End()

		month, err := queryInt(r, "month")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		year, err := queryInt(r, "year")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		q := r.URL.Query()
		txs, err := svc.List(ctx, UserIDFromContext(ctx), domain.TransactionFilter{
			Month:         month,
			Year:          year,
			BankAccountID: q.Get("bankAccountId"),
			Type:          domain.TransactionType(q.Get("type")),
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func createTransactionHandler(svc *service.TransactionsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions")
		defer span.End()

		var req domain.CreateTransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tx, err := svc.Create(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func updateTransactionHandler(svc *service.TransactionsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/transactions/{transactionId}")
		defer span.End()

		var req domain.UpdateTransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		tx, err := svc.Update(ctx, UserIDFromContext(ctx), chi.URLParam(r, "transactionId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func deleteTransactionHandler(svc *service.TransactionsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/transactions/{transactionId}")
		defer span.End()

		if err := svc.Remove(ctx, UserIDFromContext(ctx), chi.URLParam(r, "transactionId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Transfers & receipts
// ============================================================

func transferHandler(svc *service.TransferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions/transfer")
		defer span.End()

		var req domain.TransferRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := svc.Transfer(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// PUT /v1/transactions/file returns a short-lived link to a receipt the caller owns.
func receiptURLHandler(receipts *service.ReceiptStorage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/transactions/file")
		defer span.End()

		var req domain.ReceiptFileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		link, err := receipts.SignedURL(ctx, UserIDFromContext(ctx), req.FileName)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}
