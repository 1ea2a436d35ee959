package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "active_leases",
			Help: "Leases without an end date or ending in the future",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM leases WHERE end_date IS NULL OR end_date > NOW()")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "financial_documents",
			Help: "Stored financial documents included in charges",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM financial_documents WHERE included_in_charges")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
