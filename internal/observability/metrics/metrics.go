package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "platform_"

	resultSuccess = "success"
	resultError   = "error"
	resultEmpty   = "empty"
)

var (
	registerOnce sync.Once

	reportBuildTotal   *prometheus.CounterVec
	reportBuildLatency *prometheus.HistogramVec
	reportSourceRows   *prometheus.GaugeVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec
)

// Init registers report metrics and DB-backed gauges.
func Init(db *sql.DB, logger logrus.FieldLogger) {
	registerOnce.Do(func() {
		reportBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_build_total",
				Help: "Total report builds by report and result",
			},
			[]string{"report", "result"},
		)
		reportBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_build_latency_seconds",
				Help:    "Report build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report", "result"},
		)
		reportSourceRows = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "report_source_rows",
				Help: "Rows read per source by the last report build",
			},
			[]string{"source"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report export operations by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			reportBuildTotal,
			reportBuildLatency,
			reportSourceRows,
			reportExportTotal,
			reportExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReportBuild records report build latency and result.
func ObserveReportBuild(report, result string, duration time.Duration) {
	if report == "" {
		report = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportBuildTotal != nil {
		reportBuildTotal.WithLabelValues(report, result).Inc()
	}
	if reportBuildLatency != nil {
		reportBuildLatency.WithLabelValues(report, result).Observe(duration.Seconds())
	}
}

// SetSourceRows records how many rows a source contributed to a build.
func SetSourceRows(counts map[string]int) {
	if reportSourceRows == nil {
		return
	}
	for source, n := range counts {
		if n < 0 {
			n = 0
		}
		reportSourceRows.WithLabelValues(source).Set(float64(n))
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultEmpty   = resultEmpty
)
