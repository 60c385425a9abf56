package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/records"
)

func TestIsAllZero(t *testing.T) {
	zero := Data{Labels: []string{"a", "b", "c"}, Series: []Series{{Values: []float64{0, 0, 0}}}}
	if !IsAllZero(zero) {
		t.Fatalf("expected all-zero payload")
	}
	zero.Series = append(zero.Series, Series{Values: []float64{0, 0.0001, 0}})
	if IsAllZero(zero) {
		t.Fatalf("non-zero value should flip the result")
	}
	if !IsAllZero(Empty()) {
		t.Fatalf("empty payload has nothing to plot")
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		5_000_000:       "$5M",
		-5_000_000:      "($5M)",
		0:               "$0",
		1250:            "$1.25K",
		999:             "$999",
		12.345:          "$12.35",
		2_500_000_000:   "$2.5B",
		999_999:         "$1M",
		-1500:           "($1.5K)",
		1.5e12:          "$1.5T",
		999_999_999_999: "$1T",
		1e15:            "$1000T",
	}
	for in, want := range cases {
		if got := FormatCurrency(in); got != want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatCurrency(math.Inf(1)); got != "-" {
		t.Fatalf("expected dash for +Inf, got %q", got)
	}
}

func TestBTCUnits(t *testing.T) {
	assert.Equal(t, UnitSats, SelectBTCUnit(0.0009))
	assert.Equal(t, UnitBTC, SelectBTCUnit(0.002))
	assert.Equal(t, UnitBTC, SelectBTCUnit(1.5))

	in := []float64{0.0001, 0.0002}
	out := ConvertBTC(in, UnitSats)
	assert.InDelta(t, 10000, out[0], 1e-6)
	assert.InDelta(t, 20000, out[1], 1e-6)
	assert.Equal(t, 0.0001, in[0])
	assert.Equal(t, in, ConvertBTC(in, UnitBTC))

	assert.Equal(t, "0.5 BTC", FormatBTC(0.5, UnitBTC))
	assert.Equal(t, "12,345 sats", FormatBTC(0.00012345, UnitSats))
	assert.Equal(t, "999 sats", FormatBTC(0.00000999, UnitSats))
}

func TestEbitdaChart(t *testing.T) {
	rows := []metrics.EbitdaMetrics{
		{RevenueUSD: 72100, TotalCostsUSD: 31500, EbitdaSell: 40600, EbitdaHodl: 45500},
	}
	data := EbitdaChart([]string{"2024-04"}, rows)
	require.Len(t, data.Series, 4)
	assert.Equal(t, []string{"2024-04"}, data.Labels)
	assert.Equal(t, []float64{40600}, data.Series[2].Values)
	assert.True(t, data.Series[2].DataLabels)

	empty := EbitdaChart(nil, nil)
	assert.Empty(t, empty.Series)
	assert.NotNil(t, empty.Labels)
	assert.Empty(t, EbitdaChart([]string{"a", "b"}, rows).Series)
}

func TestEnergyBalanceChartDropsUnboundedRates(t *testing.T) {
	inf := math.Inf(1)
	rate := 0.04
	rows := []metrics.EnergyBalanceMetrics{
		{CurtailmentRate: &rate},
		{CurtailmentRate: &inf},
		{},
	}
	data := EnergyBalanceChart([]string{"a", "b", "c"}, rows)
	require.Len(t, data.Series, 4)
	curtailment := data.Series[3].Values
	assert.InDelta(t, 4, curtailment[0], 1e-9)
	assert.Equal(t, 0.0, curtailment[1])
	assert.Equal(t, 0.0, curtailment[2])
}

func TestRevenueChartSwitchesToSats(t *testing.T) {
	rows := []metrics.RevenueSummaryMetrics{{RevenueBTC: 0.0002}, {RevenueBTC: 0.0005}}
	data := RevenueChart([]string{"a", "b"}, rows)
	require.Len(t, data.Series, 2)
	assert.Equal(t, string(UnitSats), data.Series[0].Unit)
	assert.InDelta(t, 50000, data.Series[0].Values[1], 1e-6)

	rows = []metrics.RevenueSummaryMetrics{{RevenueBTC: 0.5}, {RevenueBTC: 0.6}}
	data = RevenueChart([]string{"a", "b"}, rows)
	assert.Equal(t, string(UnitBTC), data.Series[0].Unit)
	assert.Equal(t, []float64{0.5, 0.6}, data.Series[0].Values)
}

func TestSubsidyFeeChartSharesUnit(t *testing.T) {
	rows := []metrics.SubsidyFeeMetrics{{SubsidyBTC: 0.3, FeesBTC: 0.0001}}
	data := SubsidyFeeChart([]string{"a"}, rows)
	require.Len(t, data.Series, 2)
	assert.Equal(t, data.Series[0].Unit, data.Series[1].Unit)
	assert.Equal(t, string(UnitBTC), data.Series[1].Unit)
}

func TestHashBalanceChartAndLabels(t *testing.T) {
	periods := []records.PeriodRecord{{Period: "2024-01"}, {Period: "2024-02"}}
	labels := Labels(periods)
	assert.Equal(t, []string{"2024-01", "2024-02"}, labels)

	rows := []metrics.HashBalanceMetrics{{CapacityFactor: 90}, {CapacityFactor: 80}}
	data := HashBalanceChart(labels, rows)
	require.Len(t, data.Series, 3)
	assert.Equal(t, []float64{90, 80}, data.Series[2].Values)
	assert.False(t, IsAllZero(data))
}
