package application

import "errors"

var (
	// ErrNilReader indicates the service was built without a source reader.
	ErrNilReader = errors.New("reports: nil source reader")
	// ErrSiteRequired indicates a request without a site id.
	ErrSiteRequired = errors.New("reports: site_id required")
	// ErrInvalidRange indicates a missing or inverted date range.
	ErrInvalidRange = errors.New("reports: to must be after from")
	// ErrRangeTooLarge indicates a range longer than the configured limit.
	ErrRangeTooLarge = errors.New("reports: range exceeds limit")
	// ErrUnknownReport indicates a report name that is not served.
	ErrUnknownReport = errors.New("reports: unknown report")
	// ErrSourceUnavailable wraps reader failures.
	ErrSourceUnavailable = errors.New("reports: source unavailable")
)
