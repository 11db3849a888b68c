package strategy

import "MarketLens/internal/model"

// Stances maps total scores to a label, highest threshold first.
var Stances = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "deeply oversold"},
	{0.5, "oversold"},
	{-0.5, "neutral"},
	{-1.2, "overbought"},
}

// DefaultStance is the label for scores below every threshold.
const DefaultStance = "deeply overbought"

func mapStance(totalScore float64) string {
	for _, s := range Stances {
		if totalScore >= s.MinScore {
			return s.Label
		}
	}
	return DefaultStance
}

// Evaluate scores the latest values of set against the last price.
func Evaluate(price float64, set model.IndicatorSet) model.Signal {
	latest := func(name string) (float64, bool) {
		v := set.Latest(name)
		return v.Float64, v.Valid
	}
	sma, smaOK := latest(model.IndicatorSMA)
	ema, emaOK := latest(model.IndicatorEMA)
	rsi, rsiOK := latest(model.IndicatorRSI)
	hist, histOK := latest(model.IndicatorMACDHist)
	lower, lowerOK := latest(model.IndicatorBBLower)
	upper, upperOK := latest(model.IndicatorBBUpper)

	factors := []model.FactorScore{
		scoreSMADeviation(price, sma, smaOK),
		scoreRSI(rsi, rsiOK),
		scoreTrend(price, ema, sma, hist, emaOK && smaOK && histOK),
		scoreBandPosition(price, lower, upper, lowerOK && upperOK),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}

	signal := model.Signal{
		Factors:    factors,
		TotalScore: total,
		Stance:     mapStance(total),
	}
	switch {
	case rsiOK && rsi > 85:
		signal.Warning = "RSI above 85: extreme overbought"
	case rsiOK && rsi < 15:
		signal.Warning = "RSI below 15: extreme oversold"
	}
	return signal
}
