package calculator

import (
	"fmt"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// RSI computes the Wilder-smoothed relative strength index over window.
// The first value is at index window, seeded with the plain average of the
// first window changes. A window with no losses yields 100.
func RSI(closes []float64, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, fmt.Errorf("rsi window %d: %w", window, model.ErrConfiguration)
	}
	out := make([]null.Float, len(closes))
	if len(closes) < window+1 {
		return out, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= window; i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}
	p := float64(window)
	avgGain /= p
	avgLoss /= p
	out[window] = null.FloatFrom(rsiValue(avgGain, avgLoss))

	for i := window + 1; i < len(closes); i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = null.FloatFrom(rsiValue(avgGain, avgLoss))
	}
	return out, nil
}

func change(prev, cur float64) (gain, loss float64) {
	d := cur - prev
	if d > 0 {
		return d, 0
	}
	return 0, -d
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
