package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/infra/observability"
	"github.com/boddenberg/finance-ledger-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services groups the use cases exposed over HTTP.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UsersService
	Accounts     *service.AccountsService
	Categories   *service.CategoriesService
	Transactions *service.TransactionsService
	Transfers    *service.TransferService
	Receipts     *service.ReceiptStorage
}

// HealthCheck probes one backing dependency for /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, checks []HealthCheck, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, remoteIPField))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(checks))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", signUpHandler(svc.Auth, logger))
		r.Post("/auth/signin", signInHandler(svc.Auth, logger))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svc.Auth, logger))

			r.Get("/users/me", meHandler(svc.Users, logger))

			// Bank accounts
			r.Get("/bank-accounts", listBankAccountsHandler(svc.Accounts, logger))
			r.Post("/bank-accounts", createBankAccountHandler(svc.Accounts, logger))
			r.Get("/bank-accounts/key/{key}", findBankAccountByKeyHandler(svc.Accounts, logger))
			r.Put("/bank-accounts/{bankAccountId}", updateBankAccountHandler(svc.Accounts, logger))
			r.Delete("/bank-accounts/{bankAccountId}", deleteBankAccountHandler(svc.Accounts, logger))

			// Categories
			r.Get("/categories", listCategoriesHandler(svc.Categories, logger))
			r.Post("/categories", createCategoryHandler(svc.Categories, logger))

			// Transactions
			r.Get("/transactions", listTransactionsHandler(svc.Transactions, logger))
			r.Post("/transactions", createTransactionHandler(svc.Transactions, logger))
			r.Post("/transactions/transfer", transferHandler(svc.Transfers, logger))
			r.Put("/transactions/file", receiptURLHandler(svc.Receipts, logger))
			r.Put("/transactions/{transactionId}", updateTransactionHandler(svc.Transactions, logger))
			r.Delete("/transactions/{transactionId}", deleteTransactionHandler(svc.Transactions, logger))
		})
	})

	return r
}

func remoteIPField(r *http.Request) zap.Field {
	return zap.String("remote_ip", r.RemoteAddr)
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LastChecked: now},
		}
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			start := time.Now()
			err := c.Ping(ctx)
			cancel()

			sh := domain.ServiceHealth{
				Name:        c.Name,
				Status:      "healthy",
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			}
			if err != nil {
				sh.Status = "degraded"
				sh.Error = err.Error()
			}
			services = append(services, sh)
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
