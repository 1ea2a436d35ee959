package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "rental_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	ledgerBuildTotal   *prometheus.CounterVec
	ledgerBuildLatency *prometheus.HistogramVec

	settlementTotal   *prometheus.CounterVec
	settlementLatency *prometheus.HistogramVec

	settlementWarnings prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	paymentsRecorded  prometheus.Counter
	revisionsRecorded prometheus.Counter
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		ledgerBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_build_total",
				Help: "Total ledger build operations by result",
			},
			[]string{"result"},
		)
		ledgerBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_build_latency_seconds",
				Help:    "Ledger build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		settlementTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_total",
				Help: "Total charge settlement computations by result",
			},
			[]string{"result"},
		)
		settlementLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_latency_seconds",
				Help:    "Charge settlement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		settlementWarnings = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_warnings_total",
				Help: "Total warnings emitted by charge settlements",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total document exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Document export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		paymentsRecorded = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "payments_recorded_total",
				Help: "Total payments recorded",
			},
		)
		revisionsRecorded = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "rent_revisions_total",
				Help: "Total rent revisions recorded",
			},
		)

		prometheus.MustRegister(
			ledgerBuildTotal,
			ledgerBuildLatency,
			settlementTotal,
			settlementLatency,
			settlementWarnings,
			exportTotal,
			exportLatency,
			paymentsRecorded,
			revisionsRecorded,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveLedgerBuild records ledger build latency and result.
func ObserveLedgerBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if ledgerBuildTotal != nil {
		ledgerBuildTotal.WithLabelValues(result).Inc()
	}
	if ledgerBuildLatency != nil {
		ledgerBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSettlement records settlement latency and result.
func ObserveSettlement(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if settlementTotal != nil {
		settlementTotal.WithLabelValues(result).Inc()
	}
	if settlementLatency != nil {
		settlementLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddSettlementWarnings increments the warning counter by count.
func AddSettlementWarnings(count int) {
	if count <= 0 {
		return
	}
	if settlementWarnings != nil {
		settlementWarnings.Add(float64(count))
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncPaymentRecorded increments the recorded payment counter.
func IncPaymentRecorded() {
	if paymentsRecorded != nil {
		paymentsRecorded.Inc()
	}
}

// IncRevisionRecorded increments the recorded revision counter.
func IncRevisionRecorded() {
	if revisionsRecorded != nil {
		revisionsRecorded.Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
