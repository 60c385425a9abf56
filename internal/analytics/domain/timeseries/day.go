package timeseries

import (
	"sort"
	"time"
)

const (
	// DayMs is the length of a UTC day bucket in milliseconds.
	DayMs int64 = 86_400_000
	// HoursPerDay is used for every day-level energy conversion.
	HoursPerDay = 24
	// SecondsPerDay is used by per-day hash metrics.
	SecondsPerDay = 86_400
)

// StartOfDay returns the UTC day bucket for a millisecond timestamp.
// It is the join key for every source; never join on raw timestamps.
func StartOfDay(ts int64) int64 {
	return floorDiv(ts, DayMs) * DayMs
}

// ToTime converts a millisecond timestamp to a UTC time.
func ToTime(ts int64) time.Time {
	return time.UnixMilli(ts).UTC()
}

// FromTime converts a time to a millisecond timestamp.
func FromTime(t time.Time) int64 {
	return t.UnixMilli()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DayMap is a day-keyed lookup. Keys are always StartOfDay values.
type DayMap[T any] map[int64]T

// Days returns the map keys in ascending order.
func (m DayMap[T]) Days() []int64 {
	days := make([]int64, 0, len(m))
	for day := range m {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Get returns the value for the day bucket containing ts.
func (m DayMap[T]) Get(ts int64) (T, bool) {
	value, ok := m[StartOfDay(ts)]
	return value, ok
}

// Update applies fn to the value stored under the day bucket containing ts.
func (m DayMap[T]) Update(ts int64, fn func(current T) T) {
	day := StartOfDay(ts)
	m[day] = fn(m[day])
}
