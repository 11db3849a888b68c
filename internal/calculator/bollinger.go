package calculator

import (
	"fmt"
	"math"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// BollingerBands holds the middle band and the two envelopes.
type BollingerBands struct {
	Middle []null.Float
	Upper  []null.Float
	Lower  []null.Float
}

// Bollinger computes SMA(window) ± k·σ, where σ is the population standard
// deviation of the trailing window of closes.
func Bollinger(closes []float64, window int, k float64) (BollingerBands, error) {
	if window <= 0 || k < 0 || math.IsNaN(k) {
		return BollingerBands{}, fmt.Errorf("bollinger window %d k %v: %w", window, k, model.ErrConfiguration)
	}
	n := len(closes)
	bb := BollingerBands{
		Middle: make([]null.Float, n),
		Upper:  make([]null.Float, n),
		Lower:  make([]null.Float, n),
	}
	for i := window - 1; i < n; i++ {
		win := closes[i-window+1 : i+1]
		mean := 0.0
		for _, c := range win {
			mean += c
		}
		mean /= float64(window)
		variance := 0.0
		for _, c := range win {
			d := c - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(window))

		bb.Middle[i] = null.FloatFrom(mean)
		bb.Upper[i] = null.FloatFrom(mean + k*sd)
		bb.Lower[i] = null.FloatFrom(mean - k*sd)
	}
	return bb, nil
}
