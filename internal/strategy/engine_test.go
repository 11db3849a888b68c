package strategy

import (
	"testing"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// latestSet builds an IndicatorSet holding one value per indicator.
func latestSet(values map[string]float64) model.IndicatorSet {
	set := model.IndicatorSet{Values: map[string][]null.Float{}}
	for _, name := range model.IndicatorNames {
		set.Values[name] = []null.Float{{}}
	}
	for name, v := range values {
		set.Values[name] = []null.Float{null.FloatFrom(v)}
	}
	return set
}

func TestEvaluate_Neutral(t *testing.T) {
	sig := Evaluate(100, latestSet(map[string]float64{
		model.IndicatorSMA:      100,
		model.IndicatorEMA:      100,
		model.IndicatorRSI:      50,
		model.IndicatorMACDHist: 0,
		model.IndicatorBBLower:  95,
		model.IndicatorBBUpper:  105,
	}))

	require.Len(t, sig.Factors, 4)
	assert.InDelta(t, 0, sig.TotalScore, 1e-12)
	assert.Equal(t, "neutral", sig.Stance)
	assert.Empty(t, sig.Warning)

	weights := 0.0
	for _, f := range sig.Factors {
		weights += f.Weight
	}
	assert.InDelta(t, 1.0, weights, 1e-12)
}

func TestEvaluate_DeeplyOversold(t *testing.T) {
	sig := Evaluate(80, latestSet(map[string]float64{
		model.IndicatorSMA:      100,
		model.IndicatorEMA:      90,
		model.IndicatorRSI:      12,
		model.IndicatorMACDHist: -1.5,
		model.IndicatorBBLower:  85,
		model.IndicatorBBUpper:  115,
	}))

	// 2*0.3 + 2*0.3 - 1*0.2 + 2*0.2
	assert.InDelta(t, 1.4, sig.TotalScore, 1e-12)
	assert.Equal(t, "deeply oversold", sig.Stance)
	assert.Equal(t, "RSI below 15: extreme oversold", sig.Warning)
	assert.Equal(t, "bear alignment, MACD falling", sig.Factors[2].Commentary)
}

func TestEvaluate_Overbought(t *testing.T) {
	sig := Evaluate(112, latestSet(map[string]float64{
		model.IndicatorSMA:      100,
		model.IndicatorEMA:      105,
		model.IndicatorRSI:      90,
		model.IndicatorMACDHist: 2,
		model.IndicatorBBLower:  90,
		model.IndicatorBBUpper:  110,
	}))

	// -1.5*0.3 - 2*0.3 + 1*0.2 - 2*0.2
	assert.InDelta(t, -1.25, sig.TotalScore, 1e-12)
	assert.Equal(t, "deeply overbought", sig.Stance)
	assert.Equal(t, "RSI above 85: extreme overbought", sig.Warning)
}

func TestEvaluate_WarmUpScoresZero(t *testing.T) {
	sig := Evaluate(100, latestSet(nil))
	assert.InDelta(t, 0, sig.TotalScore, 1e-12)
	assert.Equal(t, "neutral", sig.Stance)
	for _, f := range sig.Factors {
		assert.Contains(t, f.Commentary, "unavailable")
	}
}

func TestEvaluate_EmptySet(t *testing.T) {
	sig := Evaluate(100, model.IndicatorSet{})
	assert.Equal(t, "neutral", sig.Stance)
}

func TestScoreBandPosition_FlatBands(t *testing.T) {
	f := scoreBandPosition(100, 100, 100, true)
	assert.Equal(t, 0.0, f.RawScore)
	assert.Equal(t, "flat bands", f.Commentary)
}

func TestMapStance(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{2, "deeply oversold"},
		{1.2, "deeply oversold"},
		{0.5, "oversold"},
		{0.49, "neutral"},
		{-0.5, "neutral"},
		{-0.51, "overbought"},
		{-1.2, "overbought"},
		{-1.21, "deeply overbought"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapStance(tt.score), "score %v", tt.score)
	}
}
