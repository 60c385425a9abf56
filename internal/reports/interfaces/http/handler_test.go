package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"mining-dashboard/internal/analytics/domain/sources"
	"mining-dashboard/internal/auth"
	"mining-dashboard/internal/reports/application"
	"mining-dashboard/internal/reports/infrastructure/memory"
)

func f64(v float64) *float64 { return &v }

func ms(y int, m time.Month, d int) sources.Millis {
	return sources.Millis(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli())
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := memory.NewSourceStore()
	err := store.Put("site-a", sources.Inputs{
		Transactions: []sources.TransactionBatch{
			{Ts: ms(2024, 4, 1), Transactions: []sources.Transaction{{ChangedBalance: f64(0.5), MiningExtra: &sources.MiningExtra{TxFee: f64(0.05)}}}},
			{Ts: ms(2024, 4, 2), Transactions: []sources.Transaction{{ChangedBalance: f64(0.6)}}},
		},
		Prices: []sources.PriceEntry{
			{Ts: ms(2024, 4, 1), PriceUSD: f64(65000)},
			{Ts: ms(2024, 4, 2), PriceUSD: f64(66000)},
			{CurrentPrice: f64(70000)},
		},
		Costs: []sources.CostRecord{
			{Site: "site-a", Year: 2024, Month: 4, EnergyCost: f64(315000), OperationalCost: f64(157500)},
		},
		// No power telemetry on 2024-04-01: curtailment rate is unbounded.
		Electricity: []sources.ElectricityRecord{
			{Ts: ms(2024, 4, 1), Energy: &sources.EnergyReading{UsedEnergy: f64(107000), AvailableEnergy: f64(1e6)}},
		},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc, err := application.NewReportService(store, application.DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewHandler(svc, logger)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

const aprilQuery = "?site_id=site-a&from=2024-04-01T00:00:00Z&to=2024-05-01T00:00:00Z&period=monthly"

func TestHandler_Ebitda(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, PathPrefix+"ebitda"+aprilQuery, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Report string `json:"report"`
		Period string `json:"period"`
		Rows   []struct {
			Period  string `json:"period"`
			Metrics struct {
				RevenueUSD float64 `json:"revenue_usd"`
				EbitdaSell float64 `json:"ebitda_sell"`
				EbitdaHodl float64 `json:"ebitda_hodl"`
			} `json:"metrics"`
		} `json:"rows"`
		Chart struct {
			Labels []string `json:"labels"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Report != "ebitda" || body.Period != "monthly" || len(body.Rows) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	row := body.Rows[0]
	if row.Period != "2024-04" || row.Metrics.EbitdaSell < 40599.99 || row.Metrics.EbitdaSell > 40600.01 {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.Metrics.EbitdaHodl < 45499.99 || row.Metrics.EbitdaHodl > 45500.01 {
		t.Fatalf("unexpected hodl %v", row.Metrics.EbitdaHodl)
	}
}

func TestHandler_EnergyBalanceUnboundedRate(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, PathPrefix+"energy-balance"+aprilQuery, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Rows []struct {
			Metrics map[string]any `json:"metrics"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	metrics := body.Rows[0].Metrics
	if metrics["curtailment_rate"] != nil {
		t.Fatalf("expected null curtailment rate, got %v", metrics["curtailment_rate"])
	}
	if metrics["curtailment_rate_unbounded"] != true {
		t.Fatalf("expected unbounded flag, got %v", metrics["curtailment_rate_unbounded"])
	}
}

func TestHandler_OtherReports(t *testing.T) {
	handler := newTestHandler(t)
	for _, name := range []string{"hash-balance", "revenue-summary", "subsidy-fee"} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, PathPrefix+name+aprilQuery, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, resp.Code)
		}
	}
}

func TestHandler_Export(t *testing.T) {
	handler := newTestHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, PathPrefix+"ebitda/export.pdf"+aprilQuery, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "ebitda_site-a_2024-04-01_2024-05-01.pdf") {
		t.Fatalf("unexpected disposition %q", resp.Header().Get("Content-Disposition"))
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, PathPrefix+"subsidy-fee/export.xlsx"+aprilQuery, nil))
	if resp.Code != http.StatusOK || resp.Body.Len() == 0 {
		t.Fatalf("expected xlsx body, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, PathPrefix+"ebitda/export.csv"+aprilQuery, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for csv export, got %d", resp.Code)
	}
}

func TestHandler_BadRequests(t *testing.T) {
	handler := newTestHandler(t)
	cases := []struct {
		method string
		target string
		code   int
	}{
		{http.MethodPost, PathPrefix + "ebitda" + aprilQuery, http.StatusMethodNotAllowed},
		{http.MethodGet, PathPrefix + "balance-sheet" + aprilQuery, http.StatusNotFound},
		{http.MethodGet, PathPrefix + "ebitda/extra/path" + aprilQuery, http.StatusNotFound},
		{http.MethodGet, PathPrefix + "ebitda?from=2024-04-01T00:00:00Z&to=2024-05-01T00:00:00Z", http.StatusBadRequest},
		{http.MethodGet, PathPrefix + "ebitda?site_id=site-a&from=yesterday&to=2024-05-01T00:00:00Z", http.StatusBadRequest},
		{http.MethodGet, PathPrefix + "ebitda?site_id=site-a&from=2024-05-01T00:00:00Z&to=2024-04-01T00:00:00Z", http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.target, nil))
		if resp.Code != tc.code {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.code, resp.Code)
		}
	}
}

func TestHandler_SiteScope(t *testing.T) {
	handler := newTestHandler(t)
	ctx := auth.WithIdentity(context.Background(), auth.RoleViewer, "user-1", []string{"site-b"})
	req := httptest.NewRequest(http.MethodGet, PathPrefix+"ebitda"+aprilQuery, nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestHandler_ExportFileNameIsQuoted(t *testing.T) {
	handler := newTestHandler(t)
	query := "?site_id=site%22a%3B%20x&from=2024-04-01T00:00:00Z&to=2024-05-01T00:00:00Z"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, PathPrefix+"ebitda/export.xlsx"+query, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	disposition, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse disposition %q: %v", resp.Header().Get("Content-Disposition"), err)
	}
	if disposition != "attachment" {
		t.Fatalf("unexpected disposition %q", disposition)
	}
	if want := `ebitda_site"a; x_2024-04-01_2024-05-01.xlsx`; params["filename"] != want {
		t.Fatalf("expected filename %q, got %q", want, params["filename"])
	}
}
