package strategy

import (
	"fmt"

	"MarketLens/internal/model"
)

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

// scoreSMADeviation scores how far the price deviates from its SMA.
// Weight: 0.30
func scoreSMADeviation(price, sma float64, ok bool) model.FactorScore {
	const name, weight = "SMA deviation", 0.30
	if !ok || sma == 0 {
		return factor(name, 0, weight, "SMA unavailable")
	}
	deviation := (price - sma) / sma * 100

	var score float64
	switch {
	case deviation <= -10:
		score = 2.0
	case deviation <= -5:
		score = 1.5
	case deviation <= -2:
		score = 1.0
	case deviation < 0:
		score = 0.5
	case deviation <= 2:
		score = 0
	case deviation <= 5:
		score = -0.5
	case deviation <= 10:
		score = -1.0
	case deviation <= 15:
		score = -1.5
	default:
		score = -2.0
	}
	return factor(name, score, weight, fmt.Sprintf("%+.1f%% from SMA", deviation))
}

// scoreRSI scores the latest RSI.
// Weight: 0.30
func scoreRSI(rsi float64, ok bool) model.FactorScore {
	const name, weight = "RSI", 0.30
	if !ok {
		return factor(name, 0, weight, "RSI unavailable")
	}

	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}
	return factor(name, score, weight, fmt.Sprintf("RSI=%.0f", rsi))
}

// scoreTrend scores moving average alignment confirmed by the MACD histogram.
// Weight: 0.20
// Bull alignment: price > EMA > SMA
// Bear alignment: price < EMA < SMA
func scoreTrend(price, ema, sma, hist float64, ok bool) model.FactorScore {
	const name, weight = "Trend", 0.20
	if !ok {
		return factor(name, 0, weight, "trend unavailable")
	}
	bullish := price > ema && ema > sma
	bearish := price < ema && ema < sma

	switch {
	case bullish && hist > 0:
		return factor(name, 1.0, weight, "bull alignment, MACD rising")
	case bullish:
		return factor(name, 0.5, weight, "bull alignment")
	case bearish && hist < 0:
		return factor(name, -1.0, weight, "bear alignment, MACD falling")
	case bearish:
		return factor(name, -0.5, weight, "bear alignment")
	default:
		return factor(name, 0, weight, "sideways")
	}
}

// scoreBandPosition scores where the price sits between the Bollinger bands.
// Weight: 0.20
func scoreBandPosition(price, lower, upper float64, ok bool) model.FactorScore {
	const name, weight = "Band position", 0.20
	if !ok {
		return factor(name, 0, weight, "bands unavailable")
	}
	if upper <= lower {
		return factor(name, 0, weight, "flat bands")
	}
	pos := (price - lower) / (upper - lower) * 100

	var score float64
	switch {
	case pos <= 0:
		score = 2.0
	case pos <= 20:
		score = 1.0
	case pos <= 40:
		score = 0.5
	case pos <= 60:
		score = 0
	case pos <= 80:
		score = -0.5
	case pos <= 100:
		score = -1.0
	default:
		score = -2.0
	}
	return factor(name, score, weight, fmt.Sprintf("%%B=%.0f%%", pos))
}
