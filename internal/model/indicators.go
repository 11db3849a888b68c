package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Indicator names used as keys of IndicatorSet.Values.
const (
	IndicatorSMA        = "sma"
	IndicatorEMA        = "ema"
	IndicatorRSI        = "rsi"
	IndicatorMACD       = "macd"
	IndicatorMACDSignal = "macd_signal"
	IndicatorMACDHist   = "macd_hist"
	IndicatorBBMiddle   = "bb_middle"
	IndicatorBBUpper    = "bb_upper"
	IndicatorBBLower    = "bb_lower"
)

// IndicatorNames lists every indicator in display order.
var IndicatorNames = []string{
	IndicatorSMA,
	IndicatorEMA,
	IndicatorRSI,
	IndicatorMACD,
	IndicatorMACDSignal,
	IndicatorMACDHist,
	IndicatorBBMiddle,
	IndicatorBBUpper,
	IndicatorBBLower,
}

// IndicatorConfig holds the window parameters of the indicator engine.
type IndicatorConfig struct {
	SMAWindow  int     `yaml:"sma_window" json:"sma_window" validate:"gt=0"`
	EMAWindow  int     `yaml:"ema_window" json:"ema_window" validate:"gt=0"`
	RSIWindow  int     `yaml:"rsi_window" json:"rsi_window" validate:"gt=0"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast" validate:"gt=0"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow" validate:"gt=0"`
	MACDSignal int     `yaml:"macd_signal" json:"macd_signal" validate:"gt=0"`
	BBWindow   int     `yaml:"bb_window" json:"bb_window" validate:"gt=0"`
	BBK        float64 `yaml:"bb_k" json:"bb_k" validate:"gte=0"`
}

// DefaultIndicatorConfig returns the conventional charting defaults.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		SMAWindow:  20,
		EMAWindow:  20,
		RSIWindow:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBWindow:   20,
		BBK:        2.0,
	}
}

// MaxWindow returns the number of points the longest configured indicator needs
// before it can produce a value. RSI needs one extra point for its first change.
func (c IndicatorConfig) MaxWindow() int {
	m := c.SMAWindow
	for _, w := range []int{c.EMAWindow, c.RSIWindow + 1, c.MACDSlow, c.BBWindow} {
		if w > m {
			m = w
		}
	}
	return m
}

// IndicatorSet maps indicator names to sequences aligned with the source series.
// Entries without a value (warm-up period) are null.
type IndicatorSet struct {
	Symbol string                  `json:"symbol"`
	Config IndicatorConfig         `json:"config"`
	Dates  []time.Time             `json:"dates"`
	Values map[string][]null.Float `json:"values"`
}

// Get returns the sequence for the named indicator, or nil if it is unknown.
func (s IndicatorSet) Get(name string) []null.Float {
	return s.Values[name]
}

// Latest returns the last value of the named indicator.
func (s IndicatorSet) Latest(name string) null.Float {
	v := s.Values[name]
	if len(v) == 0 {
		return null.Float{}
	}
	return v[len(v)-1]
}
