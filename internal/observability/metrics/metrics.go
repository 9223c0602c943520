package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "portal_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported result labels for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	rateSetTotal   *prometheus.CounterVec
	rateSetLatency *prometheus.HistogramVec

	batchGenerateTotal    *prometheus.CounterVec
	batchGenerateLatency  *prometheus.HistogramVec
	batchGeneratedFees    prometheus.Counter
	batchSkippedResidents prometheus.Counter

	markPaidTotal   *prometheus.CounterVec
	markPaidLatency *prometheus.HistogramVec

	ledgerExportTotal   *prometheus.CounterVec
	ledgerExportLatency *prometheus.HistogramVec

	noticesPosted prometheus.Counter

	reminderRuns *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status class",
			},
			[]string{"method", "class"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		rateSetTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fee_rate_set_total",
				Help: "Total fee configuration rotations by result",
			},
			[]string{"result"},
		)
		rateSetLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fee_rate_set_latency_seconds",
				Help:    "Fee configuration rotation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		batchGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fee_batch_generate_total",
				Help: "Total fee batch generation operations by result",
			},
			[]string{"result"},
		)
		batchGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fee_batch_generate_latency_seconds",
				Help:    "Fee batch generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		batchGeneratedFees = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "fee_batch_inserted_total",
				Help: "Total monthly fee rows inserted by batch generation",
			},
		)
		batchSkippedResidents = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "fee_batch_skipped_total",
				Help: "Total residents skipped because a fee already existed",
			},
		)

		markPaidTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fee_mark_paid_total",
				Help: "Total payment marking operations by result",
			},
			[]string{"result"},
		)
		markPaidLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fee_mark_paid_latency_seconds",
				Help:    "Payment marking latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		ledgerExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_export_total",
				Help: "Total ledger exports by format and result",
			},
			[]string{"format", "result"},
		)
		ledgerExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_export_latency_seconds",
				Help:    "Ledger export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		noticesPosted = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "notices_posted_total",
				Help: "Total notices posted",
			},
		)

		reminderRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_reminder_runs_total",
				Help: "Total payment reminder runs by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			rateSetTotal,
			rateSetLatency,
			batchGenerateTotal,
			batchGenerateLatency,
			batchGeneratedFees,
			batchSkippedResidents,
			markPaidTotal,
			markPaidLatency,
			ledgerExportTotal,
			ledgerExportLatency,
			noticesPosted,
			reminderRuns,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveHTTP records request duration and status class.
func ObserveHTTP(method string, statusCode int, duration time.Duration) {
	class := "2xx"
	switch {
	case statusCode >= 500:
		class = "5xx"
	case statusCode >= 400:
		class = "4xx"
	case statusCode >= 300:
		class = "3xx"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, class).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method).Observe(duration.Seconds())
	}
}

// ObserveRateSet records a fee configuration rotation.
func ObserveRateSet(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if rateSetTotal != nil {
		rateSetTotal.WithLabelValues(result).Inc()
	}
	if rateSetLatency != nil {
		rateSetLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveBatchGenerate records a batch generation run.
func ObserveBatchGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if batchGenerateTotal != nil {
		batchGenerateTotal.WithLabelValues(result).Inc()
	}
	if batchGenerateLatency != nil {
		batchGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddBatchCounts adds inserted and skipped row counts for a batch run.
func AddBatchCounts(inserted, skipped int) {
	if batchGeneratedFees != nil && inserted > 0 {
		batchGeneratedFees.Add(float64(inserted))
	}
	if batchSkippedResidents != nil && skipped > 0 {
		batchSkippedResidents.Add(float64(skipped))
	}
}

// ObserveMarkPaid records a payment marking operation.
func ObserveMarkPaid(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if markPaidTotal != nil {
		markPaidTotal.WithLabelValues(result).Inc()
	}
	if markPaidLatency != nil {
		markPaidLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveLedgerExport records export latency and result.
func ObserveLedgerExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if ledgerExportTotal != nil {
		ledgerExportTotal.WithLabelValues(format, result).Inc()
	}
	if ledgerExportLatency != nil {
		ledgerExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncNoticePosted increments the posted notices counter.
func IncNoticePosted() {
	if noticesPosted != nil {
		noticesPosted.Inc()
	}
}

// IncReminderRun increments the reminder run counter.
func IncReminderRun(result string) {
	if result == "" {
		result = resultSuccess
	}
	if reminderRuns != nil {
		reminderRuns.WithLabelValues(result).Inc()
	}
}
