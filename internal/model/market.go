package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// PricePoint is one trading period of a symbol. Only Close is mandatory.
type PricePoint struct {
	Date   time.Time  `json:"date"`
	Open   null.Float `json:"open"`
	High   null.Float `json:"high"`
	Low    null.Float `json:"low"`
	Close  float64    `json:"close"`
	Volume null.Float `json:"volume"`
}

// PriceSeries holds the price history of one symbol, ordered by date with no duplicates.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// Empty reports whether the series has no points.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// Closes returns the close prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns the point dates in order.
func (s PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// First returns the earliest point. The series must not be empty.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the latest point. The series must not be empty.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Profile is descriptive metadata for a symbol. Any field may be unknown.
type Profile struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name,omitempty"`
	Sector    string     `json:"sector,omitempty"`
	MarketCap null.Float `json:"market_cap"`
	LastPrice null.Float `json:"last_price"`
	Currency  string     `json:"currency,omitempty"`
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizedPoint is a close divided by the first close of its series.
type NormalizedPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// NormalizedSeries rebases a PriceSeries so that its first point equals 1.0.
type NormalizedSeries struct {
	Symbol string            `json:"symbol"`
	Points []NormalizedPoint `json:"points"`
}
