package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"mining-dashboard/internal/auth"
	"mining-dashboard/internal/observability/metrics"
	"mining-dashboard/internal/reports/application"
	"mining-dashboard/internal/reports/infrastructure/memory"
	"mining-dashboard/internal/reports/infrastructure/postgres"
	reportshttp "mining-dashboard/internal/reports/interfaces/http"
)

const requestIDHeader = "X-Request-ID"

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)

	var (
		db     *sql.DB
		reader application.SourceReader
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("db open error")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.WithError(err).Fatal("db ping error")
		}
		reader = postgres.NewSourceReader(db)
	} else {
		store := memory.NewSourceStore()
		if cfg.SeedFile != "" {
			if err := store.LoadFile(cfg.SeedFile); err != nil {
				logger.WithError(err).WithField("file", cfg.SeedFile).Fatal("seed load error")
			}
		}
		logger.WithField("sites", store.Sites()).Warn("no database configured, serving in-memory sources")
		reader = store
	}

	metrics.Init(db, logger)

	reportsCfg, err := application.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("reports config error")
	}
	reportService, err := application.NewReportService(reader, reportsCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("report service error")
	}
	reportHandler, err := reportshttp.NewHandler(reportService, logger)
	if err != nil {
		logger.WithError(err).Fatal("report handler error")
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy, logger)

	mux := http.NewServeMux()
	mux.Handle(reportshttp.PathPrefix, reportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.WithField("addr", cfg.HTTPAddr).Info("http listening")
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	LogLevel    string
	SeedFile    string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		SeedFile:    getenvDefault("REPORTS_SEED_FILE", ""),
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func loggingMiddleware(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     resp.status,
			"duration":   time.Since(start).String(),
		}).Info("http request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
