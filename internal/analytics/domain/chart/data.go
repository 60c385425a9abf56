package chart

import (
	"github.com/samber/lo"

	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// Data is the generic payload consumed by chart widgets.
type Data struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series is one plotted line or bar group. Values align with Data.Labels.
type Series struct {
	Label      string    `json:"label"`
	Values     []float64 `json:"values"`
	Color      string    `json:"color"`
	Unit       string    `json:"unit,omitempty"`
	DataLabels bool      `json:"datalabels,omitempty"`
}

const (
	ColorRevenue     = "#F7931A"
	ColorCost        = "#E5484D"
	ColorEbitdaSell  = "#30A46C"
	ColorEbitdaHodl  = "#0091FF"
	ColorEnergy      = "#FFB224"
	ColorCurtailment = "#8E4EC6"
	ColorHash        = "#12A594"
	ColorSubsidy     = "#3E63DD"
	ColorFees        = "#AB4ABA"
)

// Empty returns a payload with no labels and no series.
func Empty() Data {
	return Data{Labels: []string{}, Series: []Series{}}
}

// IsAllZero reports whether there is nothing to plot: no series, or every
// value of every series is zero.
func IsAllZero(d Data) bool {
	return lo.EveryBy(d.Series, func(s Series) bool {
		return lo.EveryBy(s.Values, func(v float64) bool { return v == 0 })
	})
}

// Labels returns the period labels in order.
func Labels(periods []records.PeriodRecord) []string {
	return lo.Map(periods, func(p records.PeriodRecord, _ int) string { return p.Period })
}

func values[T any](rows []T, pick func(T) float64) []float64 {
	return lo.Map(rows, func(row T, _ int) float64 { return plottable(pick(row)) })
}

func optValues[T any](rows []T, pick func(T) *float64) []float64 {
	return lo.Map(rows, func(row T, _ int) float64 { return plottable(calc.ValueOr(pick(row), 0)) })
}

// plottable maps NaN and ±Inf to zero; widgets cannot draw them.
func plottable(v float64) float64 {
	if !calc.IsFinite(v) {
		return 0
	}
	return v
}

func maxAbs(series ...[]float64) float64 {
	var out float64
	for _, values := range series {
		for _, v := range values {
			if v < 0 {
				v = -v
			}
			out = max(out, v)
		}
	}
	return out
}
