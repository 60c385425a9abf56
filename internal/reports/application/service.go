package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/sources"
	obsmetrics "mining-dashboard/internal/observability/metrics"
)

// SourceReader loads the raw inputs for one site and date range.
type SourceReader interface {
	ReadInputs(ctx context.Context, siteID string, from, to time.Time) (sources.Inputs, error)
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// ReportService reads sources and computes reports.
type ReportService struct {
	reader SourceReader
	config Config
	logger logrus.FieldLogger
	clock  Clock
}

// ServiceOption configures the service.
type ServiceOption func(*ReportService)

// WithClock overrides the clock used for latency measurement.
func WithClock(clock Clock) ServiceOption {
	return func(s *ReportService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewReportService constructs a report service.
func NewReportService(reader SourceReader, cfg Config, logger logrus.FieldLogger, opts ...ServiceOption) (*ReportService, error) {
	if reader == nil {
		return nil, ErrNilReader
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &ReportService{
		reader: reader,
		config: cfg,
		logger: logger,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the service configuration.
func (s *ReportService) Config() Config { return s.config }

// Normalize fills request defaults: the configured default period when none
// is given.
func (s *ReportService) Normalize(req ReportRequest) ReportRequest {
	req.Period = periodType(string(req.Period), s.config.DefaultPeriod)
	req.From = req.From.UTC()
	req.To = req.To.UTC()
	return req
}

// Dataset validates req, reads its sources and builds the dataset.
func (s *ReportService) Dataset(ctx context.Context, name ReportName, req ReportRequest) (Dataset, error) {
	start := s.clock.Now()
	req = s.Normalize(req)
	log := s.logger.WithFields(logrus.Fields{
		"report":  name,
		"site_id": req.SiteID,
		"period":  req.Period,
	})

	if err := req.Validate(s.config.MaxRangeDays); err != nil {
		obsmetrics.ObserveReportBuild(string(name), obsmetrics.ResultError, s.clock.Now().Sub(start))
		return Dataset{}, err
	}

	inputs, err := s.reader.ReadInputs(ctx, req.SiteID, req.From, req.To)
	if err != nil {
		obsmetrics.ObserveReportBuild(string(name), obsmetrics.ResultError, s.clock.Now().Sub(start))
		log.WithError(err).Error("read report sources")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Dataset{}, err
		}
		return Dataset{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	counts := inputs.Counts()
	obsmetrics.SetSourceRows(counts)

	ds := BuildDataset(inputs, req, s.config.ParamsForSite(req.SiteID))
	result := obsmetrics.ResultSuccess
	if ds.Empty() {
		result = obsmetrics.ResultEmpty
	}
	if ds.CurrentBTCPrice == 0 && !ds.Empty() {
		log.Warn("no BTC price available, hodl figures are zero")
	}
	elapsed := s.clock.Now().Sub(start)
	obsmetrics.ObserveReportBuild(string(name), result, elapsed)
	log.WithFields(logrus.Fields{
		"days":     len(ds.Days),
		"periods":  len(ds.Periods),
		"sources":  counts,
		"duration": elapsed,
	}).Debug("report dataset built")
	return ds, nil
}

// Ebitda builds the EBITDA report.
func (s *ReportService) Ebitda(ctx context.Context, req ReportRequest) (Report[metrics.EbitdaMetrics], error) {
	ds, err := s.Dataset(ctx, ReportEbitda, req)
	if err != nil {
		return Report[metrics.EbitdaMetrics]{}, err
	}
	return EbitdaReport(ds), nil
}

// EnergyBalance builds the energy balance report.
func (s *ReportService) EnergyBalance(ctx context.Context, req ReportRequest) (Report[metrics.EnergyBalanceMetrics], error) {
	ds, err := s.Dataset(ctx, ReportEnergyBalance, req)
	if err != nil {
		return Report[metrics.EnergyBalanceMetrics]{}, err
	}
	return EnergyBalanceReport(ds), nil
}

// HashBalance builds the hash balance report.
func (s *ReportService) HashBalance(ctx context.Context, req ReportRequest) (Report[metrics.HashBalanceMetrics], error) {
	ds, err := s.Dataset(ctx, ReportHashBalance, req)
	if err != nil {
		return Report[metrics.HashBalanceMetrics]{}, err
	}
	return HashBalanceReport(ds), nil
}

// RevenueSummary builds the revenue summary report.
func (s *ReportService) RevenueSummary(ctx context.Context, req ReportRequest) (Report[metrics.RevenueSummaryMetrics], error) {
	ds, err := s.Dataset(ctx, ReportRevenueSummary, req)
	if err != nil {
		return Report[metrics.RevenueSummaryMetrics]{}, err
	}
	return RevenueSummaryReport(ds), nil
}

// SubsidyFee builds the subsidy and fee report.
func (s *ReportService) SubsidyFee(ctx context.Context, req ReportRequest) (Report[metrics.SubsidyFeeMetrics], error) {
	ds, err := s.Dataset(ctx, ReportSubsidyFee, req)
	if err != nil {
		return Report[metrics.SubsidyFeeMetrics]{}, err
	}
	return SubsidyFeeReport(ds), nil
}

// Table builds the named report in tabular form for export.
func (s *ReportService) Table(ctx context.Context, name ReportName, req ReportRequest) (Table, error) {
	if _, err := ParseReportName(string(name)); err != nil {
		return Table{}, err
	}
	ds, err := s.Dataset(ctx, name, req)
	if err != nil {
		return Table{}, err
	}
	return TableFor(name, ds)
}
