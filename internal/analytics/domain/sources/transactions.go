package sources

import (
	"github.com/shopspring/decimal"

	"mining-dashboard/internal/analytics/domain/timeseries"
)

var satoshisPerBTC = decimal.NewFromInt(100_000_000)

// TransactionDay is the pool income booked on one day.
type TransactionDay struct {
	RevenueBTC float64
	FeesBTC    float64
}

type btcTotals struct {
	revenue decimal.Decimal
	fees    decimal.Decimal
}

// TransactionsByDay sums revenue and fees per day bucket. Batches whose
// timestamps fall on the same day are added together.
func TransactionsByDay(batches []TransactionBatch) timeseries.DayMap[TransactionDay] {
	totals := make(map[int64]btcTotals)
	for _, batch := range batches {
		if len(batch.Transactions) == 0 {
			continue
		}
		day := timeseries.StartOfDay(batch.Ts.Int64())
		sum, ok := totals[day]
		if !ok {
			sum = btcTotals{revenue: decimal.Zero, fees: decimal.Zero}
		}
		for _, tx := range batch.Transactions {
			revenue, fees := transactionBTC(tx)
			sum.revenue = sum.revenue.Add(revenue)
			sum.fees = sum.fees.Add(fees)
		}
		totals[day] = sum
	}

	out := make(timeseries.DayMap[TransactionDay], len(totals))
	for day, sum := range totals {
		out[day] = TransactionDay{
			RevenueBTC: sum.revenue.InexactFloat64(),
			FeesBTC:    sum.fees.InexactFloat64(),
		}
	}
	return out
}

func transactionBTC(tx Transaction) (decimal.Decimal, decimal.Decimal) {
	if balance, ok := finite(tx.ChangedBalance); ok {
		fees := decimal.Zero
		if tx.MiningExtra != nil {
			if fee, ok := finite(tx.MiningExtra.TxFee); ok {
				fees = decimal.NewFromFloat(fee)
			}
		}
		return decimal.NewFromFloat(balance), fees
	}

	// legacy shape
	revenue, fees := decimal.Zero, decimal.Zero
	if sats, ok := finite(tx.SatoshisNetEarned); ok {
		revenue = decimal.NewFromFloat(sats).Div(satoshisPerBTC)
	}
	if sats, ok := finite(tx.FeesCollectedSatoshis); ok {
		fees = decimal.NewFromFloat(sats).Div(satoshisPerBTC)
	}
	return revenue, fees
}
