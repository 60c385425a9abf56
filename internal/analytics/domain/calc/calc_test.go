package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDiv(t *testing.T) {
	for _, x := range []float64{0, 1, -3.5, 1e12} {
		assert.Nil(t, SafeDiv(x, 0), "x=%v", x)
	}
	assert.Nil(t, SafeDiv(math.NaN(), 2))
	assert.Nil(t, SafeDiv(1, math.Inf(1)))

	got := SafeDiv(10, 4)
	require.NotNil(t, got)
	assert.Equal(t, 2.5, *got)
}

func TestSafeDivOpt_NilOperands(t *testing.T) {
	assert.Nil(t, SafeDivOpt(nil, Float(2)))
	assert.Nil(t, SafeDivOpt(Float(2), nil))
	got := SafeDivOpt(Float(9), Float(3))
	require.NotNil(t, got)
	assert.Equal(t, 3.0, *got)
}

func TestMeanOpt_SkipsNil(t *testing.T) {
	assert.Nil(t, MeanOpt(nil))
	assert.Nil(t, MeanOpt([]*float64{nil, nil}))
	got := MeanOpt([]*float64{Float(1), nil, Float(3)})
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got)
}

func TestCurtailment_ReferenceValues(t *testing.T) {
	res := Curtailment(107000, 22.5, 20, 24)
	assert.InDelta(t, 2.568, res.UsedEnergyMWh, 1e-9)
	assert.InDelta(t, 19.932, res.CurtailmentMWh, 1e-9)
	assert.InDelta(t, 0.0415250, res.Rate, 1e-6)
}

func TestCurtailment_ZeroPowerIsUnbounded(t *testing.T) {
	res := Curtailment(107000, 22.5, 0, 24)
	assert.True(t, math.IsInf(res.Rate, 1))
	assert.InDelta(t, 19.932, res.CurtailmentMWh, 1e-9)
}

func TestCurtailment_NegativeCurtailmentClampsRate(t *testing.T) {
	res := Curtailment(2_000_000, 22.5, 20, 24)
	assert.Less(t, res.CurtailmentMWh, 0.0)
	assert.Equal(t, 0.0, res.Rate)
}

func TestOperationalIssuesRate(t *testing.T) {
	// available 1e6 -> 1 MW -> 24 MWh; consumption 0.5 MW -> 12 MWh.
	got := OperationalIssuesRate(1_000_000, 0.5, 24)
	require.NotNil(t, got)
	assert.InDelta(t, 0.5, *got, 1e-9)

	floored := OperationalIssuesRate(1_000_000, 2, 24)
	require.NotNil(t, floored)
	assert.Equal(t, 0.0, *floored)

	assert.Nil(t, OperationalIssuesRate(0, 1, 24))
}

func TestCapacityFactor(t *testing.T) {
	assert.InDelta(t, 90.0, CapacityFactor(45_000_000, 50_000_000), 1e-9)
	assert.Equal(t, 0.0, CapacityFactor(45_000_000, 0))
	assert.Equal(t, 0.0, CapacityFactor(45_000_000, -1))
}

func TestPerPHsAndPerMWh(t *testing.T) {
	got := PerPHs(1000, 2e9)
	require.NotNil(t, got)
	assert.InDelta(t, 500, *got, 1e-9)

	perDay := PerPHsPerDay(1000, 2e9, 10)
	require.NotNil(t, perDay)
	assert.InDelta(t, 50, *perDay, 1e-9)

	assert.Nil(t, PerPHs(1000, 0))

	perMWh := PerMWh(4800, 20, 24)
	require.NotNil(t, perMWh)
	assert.InDelta(t, 10, *perMWh, 1e-9)
	assert.Nil(t, PerMW(1, 0))
}
