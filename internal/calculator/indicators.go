package calculator

import (
	"fmt"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// ValidateConfig checks that every window is positive, MACD fast < slow and bb_k >= 0.
func ValidateConfig(cfg model.IndicatorConfig) error {
	for _, w := range []struct {
		name  string
		value int
	}{
		{"sma_window", cfg.SMAWindow},
		{"ema_window", cfg.EMAWindow},
		{"rsi_window", cfg.RSIWindow},
		{"macd_fast", cfg.MACDFast},
		{"macd_slow", cfg.MACDSlow},
		{"macd_signal", cfg.MACDSignal},
		{"bb_window", cfg.BBWindow},
	} {
		if w.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d: %w", w.name, w.value, model.ErrConfiguration)
		}
	}
	if cfg.MACDFast >= cfg.MACDSlow {
		return fmt.Errorf("macd_fast %d must be below macd_slow %d: %w", cfg.MACDFast, cfg.MACDSlow, model.ErrConfiguration)
	}
	if cfg.BBK < 0 {
		return fmt.Errorf("bb_k must not be negative, got %v: %w", cfg.BBK, model.ErrConfiguration)
	}
	return nil
}

// ComputeIndicators evaluates every configured indicator over the closes of series.
// A series shorter than the longest window yields an all-null set instead of an error.
func ComputeIndicators(series model.PriceSeries, cfg model.IndicatorConfig) (model.IndicatorSet, error) {
	if series.Empty() {
		return model.IndicatorSet{}, fmt.Errorf("indicators %s: %w", series.Symbol, model.ErrEmptySeries)
	}
	if err := ValidateConfig(cfg); err != nil {
		return model.IndicatorSet{}, fmt.Errorf("indicators %s: %w", series.Symbol, err)
	}

	set := model.IndicatorSet{
		Symbol: series.Symbol,
		Config: cfg,
		Dates:  series.Dates(),
		Values: make(map[string][]null.Float, len(model.IndicatorNames)),
	}
	n := series.Len()
	if n < cfg.MaxWindow() {
		for _, name := range model.IndicatorNames {
			set.Values[name] = make([]null.Float, n)
		}
		return set, nil
	}

	closes := series.Closes()
	sma, err := SMA(closes, cfg.SMAWindow)
	if err != nil {
		return model.IndicatorSet{}, err
	}
	ema, err := EMA(closes, cfg.EMAWindow)
	if err != nil {
		return model.IndicatorSet{}, err
	}
	rsi, err := RSI(closes, cfg.RSIWindow)
	if err != nil {
		return model.IndicatorSet{}, err
	}
	macd, err := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return model.IndicatorSet{}, err
	}
	bb, err := Bollinger(closes, cfg.BBWindow, cfg.BBK)
	if err != nil {
		return model.IndicatorSet{}, err
	}

	set.Values[model.IndicatorSMA] = sma
	set.Values[model.IndicatorEMA] = ema
	set.Values[model.IndicatorRSI] = rsi
	set.Values[model.IndicatorMACD] = macd.Line
	set.Values[model.IndicatorMACDSignal] = macd.Signal
	set.Values[model.IndicatorMACDHist] = macd.Histogram
	set.Values[model.IndicatorBBMiddle] = bb.Middle
	set.Values[model.IndicatorBBUpper] = bb.Upper
	set.Values[model.IndicatorBBLower] = bb.Lower
	return set, nil
}
