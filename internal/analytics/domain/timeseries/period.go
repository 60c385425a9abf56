package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// PeriodType is the calendar grain a report is grouped by.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

// ParsePeriodType normalizes a period name. Unknown values fall back to daily.
func ParsePeriodType(value string) PeriodType {
	switch PeriodType(strings.ToLower(strings.TrimSpace(value))) {
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	case PeriodYearly:
		return PeriodYearly
	default:
		return PeriodDaily
	}
}

// IsValid reports whether the period type is one of the supported grains.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// PeriodKey returns the UTC start of the period containing ts.
// Month and year boundaries are calendar aware, weeks start on Monday.
func PeriodKey(ts int64, p PeriodType) int64 {
	day := StartOfDay(ts)
	t := ToTime(day)
	switch ParsePeriodType(string(p)) {
	case PeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return day - int64(offset)*DayMs
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	case PeriodYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	default:
		return day
	}
}

// PeriodLabel returns the string key of the period containing ts.
func PeriodLabel(ts int64, p PeriodType) string {
	t := ToTime(PeriodKey(ts, p))
	switch ParsePeriodType(string(p)) {
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodYearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the UTC calendar month containing ts.
func MonthKeyOf(ts int64) MonthKey {
	t := ToTime(ts)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String formats the key as "2006-01".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}
