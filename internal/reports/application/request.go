package application

import (
	"fmt"
	"time"

	"mining-dashboard/internal/analytics/domain/timeseries"
)

// ReportRequest selects a site, a [From, To) range and a period grain.
type ReportRequest struct {
	SiteID string
	From   time.Time
	To     time.Time
	Period timeseries.PeriodType
}

// Validate checks the request against a maximum range in days. A
// non-positive maxDays disables the limit.
func (r ReportRequest) Validate(maxDays int) error {
	if r.SiteID == "" {
		return ErrSiteRequired
	}
	if r.From.IsZero() || r.To.IsZero() || !r.To.After(r.From) {
		return ErrInvalidRange
	}
	if maxDays > 0 && r.To.Sub(r.From) > time.Duration(maxDays)*24*time.Hour {
		return fmt.Errorf("%w: %d days", ErrRangeTooLarge, maxDays)
	}
	return nil
}

func (r ReportRequest) fromMs() int64 { return timeseries.FromTime(r.From) }
func (r ReportRequest) toMs() int64   { return timeseries.FromTime(r.To) }
