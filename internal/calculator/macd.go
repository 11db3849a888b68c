package calculator

import (
	"fmt"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// MACDSeries holds the three aligned MACD outputs.
type MACDSeries struct {
	Line      []null.Float
	Signal    []null.Float
	Histogram []null.Float
}

// MACD computes EMA(fast) - EMA(slow), its signal EMA and the histogram.
// fast must be shorter than slow.
func MACD(closes []float64, fast, slow, signal int) (MACDSeries, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDSeries{}, fmt.Errorf("macd windows %d/%d/%d: %w", fast, slow, signal, model.ErrConfiguration)
	}
	if fast >= slow {
		return MACDSeries{}, fmt.Errorf("macd fast %d must be below slow %d: %w", fast, slow, model.ErrConfiguration)
	}
	fastEMA, err := EMA(closes, fast)
	if err != nil {
		return MACDSeries{}, err
	}
	slowEMA, err := EMA(closes, slow)
	if err != nil {
		return MACDSeries{}, err
	}

	line := make([]null.Float, len(closes))
	for i := range closes {
		if fastEMA[i].Valid && slowEMA[i].Valid {
			line[i] = null.FloatFrom(fastEMA[i].ValueOrZero() - slowEMA[i].ValueOrZero())
		}
	}
	sig, err := emaOf(line, signal)
	if err != nil {
		return MACDSeries{}, err
	}
	hist := make([]null.Float, len(closes))
	for i := range closes {
		if line[i].Valid && sig[i].Valid {
			hist[i] = null.FloatFrom(line[i].ValueOrZero() - sig[i].ValueOrZero())
		}
	}
	return MACDSeries{Line: line, Signal: sig, Histogram: hist}, nil
}
