package model

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is a lookback period selectable on the overview page.
type Timeframe string

const (
	Timeframe1W  Timeframe = "1W"
	Timeframe1M  Timeframe = "1M"
	TimeframeYTD Timeframe = "YTD"
	Timeframe1Y  Timeframe = "1Y"
)

// Timeframes lists the supported timeframes in selector order.
var Timeframes = []Timeframe{Timeframe1W, Timeframe1M, TimeframeYTD, Timeframe1Y}

// ParseTimeframe accepts a timeframe label in any case.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range Timeframes {
		if t == tf {
			return t, nil
		}
	}
	return "", fmt.Errorf("timeframe %q: %w", s, ErrConfiguration)
}

// Range returns the [start, end] dates covered by the timeframe as of now.
func (t Timeframe) Range(now time.Time) (start, end time.Time) {
	end = Day(now)
	switch t {
	case Timeframe1W:
		start = end.AddDate(0, 0, -7)
	case Timeframe1M:
		start = end.AddDate(0, -1, 0)
	case TimeframeYTD:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		start = end.AddDate(-1, 0, 0)
	}
	return start, end
}
