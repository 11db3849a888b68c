package calculator

import (
	"fmt"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// SMA computes the simple moving average of values over window.
// Indices before window-1 have no value.
func SMA(values []float64, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, fmt.Errorf("sma window %d: %w", window, model.ErrConfiguration)
	}
	out := make([]null.Float, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = null.FloatFrom(sum / float64(window))
		}
	}
	return out, nil
}

// EMA computes the exponential moving average of values with α = 2/(window+1).
// The average is seeded with the SMA of the first window values, so the first
// value appears at index window-1.
func EMA(values []float64, window int) ([]null.Float, error) {
	in := make([]null.Float, len(values))
	for i, v := range values {
		in[i] = null.FloatFrom(v)
	}
	return emaOf(in, window)
}

// emaOf runs EMA over the values that follow the first non-null entry.
// Leading nulls stay null; the input must have no gaps after its first value.
func emaOf(values []null.Float, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, fmt.Errorf("ema window %d: %w", window, model.ErrConfiguration)
	}
	out := make([]null.Float, len(values))
	start := -1
	for i, v := range values {
		if v.Valid {
			start = i
			break
		}
	}
	if start < 0 || len(values)-start < window {
		return out, nil
	}

	alpha := 2.0 / float64(window+1)
	seed := 0.0
	for i := start; i < start+window; i++ {
		seed += values[i].ValueOrZero()
	}
	ema := seed / float64(window)
	out[start+window-1] = null.FloatFrom(ema)
	for i := start + window; i < len(values); i++ {
		ema = alpha*values[i].ValueOrZero() + (1-alpha)*ema
		out[i] = null.FloatFrom(ema)
	}
	return out, nil
}
