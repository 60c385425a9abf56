package chart

import (
	"strings"

	"github.com/shopspring/decimal"

	"mining-dashboard/internal/analytics/domain/calc"
)

// BTCUnit is the display unit for BTC amounts.
type BTCUnit string

const (
	UnitBTC  BTCUnit = "BTC"
	UnitSats BTCUnit = "sats"
)

// satsDisplayThreshold is the satoshi amount below which values read better as sats.
const satsDisplayThreshold = 100_000

// SelectBTCUnit picks satoshis when the largest value is below 100,000 sats.
func SelectBTCUnit(maxBTC float64) BTCUnit {
	if calc.BTCToSatoshis(maxBTC) < satsDisplayThreshold {
		return UnitSats
	}
	return UnitBTC
}

// ConvertBTC returns values expressed in unit. The input is not modified.
func ConvertBTC(values []float64, unit BTCUnit) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if unit == UnitSats {
			v = calc.BTCToSatoshis(v)
		}
		out[i] = v
	}
	return out
}

var currencySuffixes = []struct {
	suffix string
	scale  decimal.Decimal
}{
	{"T", decimal.New(1, 12)},
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
	{"K", decimal.New(1, 3)},
}

var thousand = decimal.New(1, 3)

// FormatCurrency renders a compact USD amount: "$1.25K", "$5M", "($5M)" for
// negatives. At most two decimals are kept and trailing zeros are dropped.
func FormatCurrency(v float64) string {
	if !calc.IsFinite(v) {
		return "-"
	}
	amount := decimal.NewFromFloat(v)
	text := "$" + compact(amount.Abs())
	if amount.IsNegative() && text != "$0" {
		return "(" + text + ")"
	}
	return text
}

func compact(abs decimal.Decimal) string {
	for i, s := range currencySuffixes {
		if abs.LessThan(s.scale) {
			continue
		}
		scaled := abs.Div(s.scale).Round(2)
		// 999_999 rounds to 1000K; promote it to the next suffix.
		if i > 0 && scaled.GreaterThanOrEqual(thousand) {
			prev := currencySuffixes[i-1]
			return abs.Div(prev.scale).Round(2).String() + prev.suffix
		}
		return scaled.String() + s.suffix
	}
	rounded := abs.Round(2)
	if rounded.GreaterThanOrEqual(thousand) {
		return "1K"
	}
	return rounded.String()
}

// FormatBTC renders a BTC amount in the given unit.
func FormatBTC(v float64, unit BTCUnit) string {
	if !calc.IsFinite(v) {
		return "-"
	}
	amount := decimal.NewFromFloat(v)
	if unit == UnitSats {
		return groupThousands(amount.Shift(8).Round(0).String()) + " sats"
	}
	return amount.Round(8).String() + " BTC"
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
