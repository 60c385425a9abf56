package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var sourceTables = map[string]string{
	"transactions": "pool_transactions",
	"prices":       "btc_prices",
	"costs":        "production_costs",
	"telemetry":    "site_telemetry",
	"electricity":  "electricity_records",
}

func registerDBMetrics(db *sql.DB, logger logrus.FieldLogger) {
	for source, table := range sourceTables {
		query := "SELECT COUNT(*) FROM " + table
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        metricPrefix + "report_source_table_rows",
				Help:        "Rows stored per report source table",
				ConstLabels: prometheus.Labels{"source": source},
			},
			func() float64 {
				return queryCount(db, logger, query)
			},
		))
	}
}

func queryCount(db *sql.DB, logger logrus.FieldLogger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("metrics query failed")
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
