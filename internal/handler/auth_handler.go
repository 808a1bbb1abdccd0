package handler

import (
	"net/http"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Auth & users
// ============================================================

func signUpHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/signup")
		defer span.End()

		var req domain.SignUpRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := authSvc.SignUp(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func signInHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/signin")
		defer span.End()

		var req domain.SignInRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		resp, err := authSvc.SignIn(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func meHandler(svc *service.UsersService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/me")
		defer span.End()

		me, err := svc.Me(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, me)
	}
}
