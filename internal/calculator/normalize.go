package calculator

import (
	"fmt"
	"math"
	"sort"

	"MarketLens/internal/model"
)

// Clean returns a copy of series that satisfies the PriceSeries invariant:
// dates truncated to calendar days, strictly increasing, no duplicates.
// Points whose close is missing (NaN, Inf or negative) are dropped. A zero
// close is kept so Normalize and Summarize can report ErrDivisionByZero.
// When a date repeats, the later point wins.
func Clean(series model.PriceSeries) model.PriceSeries {
	points := make([]model.PricePoint, 0, len(series.Points))
	for _, p := range series.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close < 0 {
			continue
		}
		p.Date = model.Day(p.Date)
		points = append(points, p)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return model.PriceSeries{Symbol: series.Symbol, Points: out}
}

// Normalize divides every close by the first close, so the first point is exactly 1.0.
func Normalize(series model.PriceSeries) (model.NormalizedSeries, error) {
	if series.Empty() {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: %w", series.Symbol, model.ErrEmptySeries)
	}
	base := series.First().Close
	if base == 0 {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: first close is zero: %w", series.Symbol, model.ErrDivisionByZero)
	}
	points := make([]model.NormalizedPoint, len(series.Points))
	for i, p := range series.Points {
		points[i] = model.NormalizedPoint{Date: p.Date, Value: p.Close / base}
	}
	return model.NormalizedSeries{Symbol: series.Symbol, Points: points}, nil
}

// HighLow scans the series and returns the highest high and lowest low.
// Points without an intraday high or low fall back to their close.
func HighLow(series model.PriceSeries) (high, low float64, err error) {
	if series.Empty() {
		return 0, 0, fmt.Errorf("high/low %s: %w", series.Symbol, model.ErrEmptySeries)
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range series.Points {
		h, l := p.Close, p.Close
		if p.High.Valid {
			h = p.High.ValueOrZero()
		}
		if p.Low.Valid {
			l = p.Low.ValueOrZero()
		}
		if h > high {
			high = h
		}
		if l < low {
			low = l
		}
	}
	return high, low, nil
}
