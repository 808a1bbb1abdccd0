package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	transfers       *prometheus.CounterVec
	transferAmount  prometheus.Histogram
	receiptBytes    prometheus.Histogram
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_external_errors_total",
				Help: "Total errors from upstream services.",
			},
			[]string{"service"},
		),
		transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Transfers attempted, by outcome.",
			},
			[]string{"outcome"},
		),
		transferAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_transfer_amount",
				Help:    "Amount of completed transfers.",
				Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
		),
		receiptBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_receipt_size_bytes",
				Help:    "Size of generated transfer receipts.",
				Buckets: prometheus.ExponentialBuckets(1024, 2, 8),
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrTransfer counts a transfer attempt with the given outcome
// (completed, insufficient_funds, not_found, rejected, failed).
func (m *Metrics) IncrTransfer(outcome string) {
	m.transfers.WithLabelValues(outcome).Inc()
}

// ObserveTransferAmount records the amount of a completed transfer.
func (m *Metrics) ObserveTransferAmount(amount float64) {
	m.transferAmount.Observe(amount)
}

// ObserveReceiptSize records the size of a rendered receipt.
func (m *Metrics) ObserveReceiptSize(n int) {
	m.receiptBytes.Observe(float64(n))
}

// TransferCount returns the cumulative number of transfers with the given outcome.
func (m *Metrics) TransferCount(outcome string) float64 {
	return getCounterValue(m.transfers, outcome)
}

// ExternalErrorCount returns the cumulative number of errors for an upstream service.
func (m *Metrics) ExternalErrorCount(service string) float64 {
	return getCounterValue(m.externalErrors, service)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
