package timeseries

import "sort"

// Reconciler joins day-keyed sources onto the days of a primary source.
// Build is called once per primary day and looks up every secondary source
// by the same day key; it owns the per-field defaults.
type Reconciler[R any] struct {
	Days  []int64
	Build func(day int64) R
}

// Reconcile emits one record per primary day, ascending by day.
func (r Reconciler[R]) Reconcile() []R {
	if r.Build == nil || len(r.Days) == 0 {
		return []R{}
	}
	days := make([]int64, 0, len(r.Days))
	seen := make(map[int64]struct{}, len(r.Days))
	for _, ts := range r.Days {
		day := StartOfDay(ts)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]R, 0, len(days))
	for _, day := range days {
		out = append(out, r.Build(day))
	}
	return out
}

// Group is a set of records sharing one period key.
type Group[R any] struct {
	Key   int64
	Label string
	Items []R
}

// GroupByPeriod buckets records by PeriodKey. Groups are ascending by key and
// keep the input order of their items.
func GroupByPeriod[R any](records []R, ts func(R) int64, p PeriodType) []Group[R] {
	if len(records) == 0 {
		return []Group[R]{}
	}
	index := make(map[int64]int)
	groups := make([]Group[R], 0)
	for _, record := range records {
		at := ts(record)
		key := PeriodKey(at, p)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group[R]{Key: key, Label: PeriodLabel(at, p)})
		}
		groups[pos].Items = append(groups[pos].Items, record)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}
