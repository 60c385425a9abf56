package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/timeseries"
	"mining-dashboard/internal/auth"
	obsmetrics "mining-dashboard/internal/observability/metrics"
	"mining-dashboard/internal/reports/application"
	"mining-dashboard/internal/reports/interfaces/export"
)

const (
	// PathPrefix is the mount point of the handler.
	PathPrefix = "/api/v1/reports/"
	timeLayout = time.RFC3339
)

// Handler serves report queries and exports.
type Handler struct {
	service *application.ReportService
	logger  logrus.FieldLogger
}

// NewHandler constructs a Handler.
func NewHandler(service *application.ReportService, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("reports http: nil service")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/reports/{name} and
// GET /api/v1/reports/{name}/export.{xlsx|pdf}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	name, format, ok := splitPath(strings.TrimPrefix(r.URL.Path, PathPrefix))
	if !ok {
		http.NotFound(w, r)
		return
	}
	report, err := application.ParseReportName(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	req, err := parseReportRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := auth.EnsureSiteAccess(r.Context(), req.SiteID); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if format != "" {
		h.serveExport(w, r, report, export.Format(format), req)
		return
	}
	h.serveReport(w, r, report, req)
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, name application.ReportName, req application.ReportRequest) {
	ctx := r.Context()
	var (
		body any
		err  error
	)
	switch name {
	case application.ReportEbitda:
		body, err = h.service.Ebitda(ctx, req)
	case application.ReportEnergyBalance:
		var report application.Report[metrics.EnergyBalanceMetrics]
		report, err = h.service.EnergyBalance(ctx, req)
		body = energyBalanceBody(report)
	case application.ReportHashBalance:
		body, err = h.service.HashBalance(ctx, req)
	case application.ReportRevenueSummary:
		body, err = h.service.RevenueSummary(ctx, req)
	case application.ReportSubsidyFee:
		body, err = h.service.SubsidyFee(ctx, req)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).WithField("report", name).Error("encode report")
	}
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, name application.ReportName, format export.Format, req application.ReportRequest) {
	start := time.Now()
	if format != export.FormatXLSX && format != export.FormatPDF {
		http.NotFound(w, r)
		return
	}

	table, err := h.service.Table(r.Context(), name, req)
	if err != nil {
		obsmetrics.ObserveReportExport(string(format), obsmetrics.ResultError, time.Since(start))
		h.writeError(w, err)
		return
	}
	data, err := export.Render(format, table)
	if err != nil {
		obsmetrics.ObserveReportExport(string(format), obsmetrics.ResultError, time.Since(start))
		h.logger.WithError(err).WithFields(logrus.Fields{"report": name, "format": format}).Error("render export")
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	obsmetrics.ObserveReportExport(string(format), obsmetrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.FileName(table, format),
	}))
	_, _ = w.Write(data)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrSiteRequired),
		errors.Is(err, application.ErrInvalidRange),
		errors.Is(err, application.ErrRangeTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, application.ErrUnknownReport):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, application.ErrSourceUnavailable):
		http.Error(w, "report sources unavailable", http.StatusBadGateway)
	default:
		h.logger.WithError(err).Error("build report")
		http.Error(w, "report error", http.StatusInternalServerError)
	}
}

// splitPath splits "{name}" or "{name}/export.{format}".
func splitPath(rest string) (name, format string, ok bool) {
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return parts[0], "", true
	case len(parts) == 2 && strings.HasPrefix(parts[1], "export."):
		format = strings.TrimPrefix(parts[1], "export.")
		return parts[0], format, format != ""
	default:
		return "", "", false
	}
}

func parseReportRequest(r *http.Request) (application.ReportRequest, error) {
	siteID := r.URL.Query().Get("site_id")
	if siteID == "" {
		return application.ReportRequest{}, errors.New("site_id is required")
	}
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		return application.ReportRequest{}, err
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		return application.ReportRequest{}, err
	}
	if !to.After(from) {
		return application.ReportRequest{}, errors.New("to must be after from")
	}
	return application.ReportRequest{
		SiteID: siteID,
		From:   from,
		To:     to,
		Period: timeseries.PeriodType(r.URL.Query().Get("period")),
	}, nil
}

func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, errors.New(key + " is required")
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, errors.New(key + " must be RFC3339")
	}
	return parsed.UTC(), nil
}

// energyBalanceRow replaces the curtailment rate, which is +Inf when a day
// has curtailment but no recorded consumption, with null plus a flag.
type energyBalanceRow struct {
	metrics.EnergyBalanceMetrics
	CurtailmentRate          *float64 `json:"curtailment_rate"`
	CurtailmentRateUnbounded bool     `json:"curtailment_rate_unbounded,omitempty"`
}

func toEnergyBalanceRow(m metrics.EnergyBalanceMetrics) energyBalanceRow {
	row := energyBalanceRow{EnergyBalanceMetrics: m, CurtailmentRate: m.CurtailmentRate}
	if m.CurtailmentRate != nil && !calc.IsFinite(*m.CurtailmentRate) {
		row.CurtailmentRate = nil
		row.CurtailmentRateUnbounded = true
	}
	return row
}

func energyBalanceBody(report application.Report[metrics.EnergyBalanceMetrics]) application.Report[energyBalanceRow] {
	rows := make([]application.Row[energyBalanceRow], 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, application.Row[energyBalanceRow]{
			Period:  row.Period,
			Ts:      row.Ts,
			Days:    row.Days,
			Metrics: toEnergyBalanceRow(row.Metrics),
		})
	}
	return application.Report[energyBalanceRow]{
		Name:            report.Name,
		SiteID:          report.SiteID,
		Period:          report.Period,
		From:            report.From,
		To:              report.To,
		CurrentBTCPrice: report.CurrentBTCPrice,
		Rows:            rows,
		Totals:          toEnergyBalanceRow(report.Totals),
		Chart:           report.Chart,
		Empty:           report.Empty,
	}
}
