package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "fees_pending",
			Help: "Monthly fee rows with stored status pending",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM monthly_fees WHERE status = 'pending'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "fees_overdue",
			Help: "Pending monthly fee rows past their due date",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM monthly_fees WHERE status = 'pending' AND due_date < CURRENT_DATE")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "residents_active",
			Help: "Active residents in the roster",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM residents WHERE active")
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
