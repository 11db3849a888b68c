package performance

import (
	"testing"
	"time"

	"MarketLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPoint(symbol string, start, end float64) model.PriceSeries {
	d := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	return model.PriceSeries{Symbol: symbol, Points: []model.PricePoint{
		{Date: d, Close: start},
		{Date: d.AddDate(0, 0, 1), Close: end},
	}}
}

func TestSummarize_LinearSeries(t *testing.T) {
	d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Symbol: "LIN"}
	for i := 0; i < 30; i++ {
		s.Points = append(s.Points, model.PricePoint{Date: d.AddDate(0, 0, i), Close: 100 + float64(i)})
	}

	sum, err := Summarize(s)
	require.NoError(t, err)
	assert.Equal(t, "LIN", sum.Symbol)
	assert.Equal(t, 100.0, sum.StartPrice)
	assert.Equal(t, 129.0, sum.EndPrice)
	assert.InDelta(t, 29.0, sum.PctChange, 1e-12)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(model.PriceSeries{Symbol: "EMPTY"})
	assert.ErrorIs(t, err, model.ErrEmptySeries)

	_, err = Summarize(twoPoint("ZERO", 0, 10))
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestSummarizeBatch_SortedDescending(t *testing.T) {
	summaries, skipped := SummarizeBatch([]model.PriceSeries{
		twoPoint("AAPL", 100, 105),
		twoPoint("MSFT", 100, 98),
		twoPoint("TSLA", 100, 110),
	})
	assert.Empty(t, skipped)
	require.Len(t, summaries, 3)

	var order []string
	for _, s := range summaries {
		order = append(order, s.Symbol)
	}
	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT"}, order)
}

func TestSummarizeBatch_StableTiesAndSkips(t *testing.T) {
	summaries, skipped := SummarizeBatch([]model.PriceSeries{
		twoPoint("B", 50, 55),
		{Symbol: "EMPTY"},
		twoPoint("A", 10, 11),
		twoPoint("ZERO", 0, 1),
		twoPoint("C", 20, 22),
	})

	require.Len(t, summaries, 3)
	assert.Equal(t, "B", summaries[0].Symbol)
	assert.Equal(t, "A", summaries[1].Symbol)
	assert.Equal(t, "C", summaries[2].Symbol)

	require.Len(t, skipped, 2)
	assert.Equal(t, model.Skipped{Symbol: "EMPTY", Kind: "empty_series", Err: skipped[0].Err}, skipped[0])
	assert.Equal(t, "division_by_zero", skipped[1].Kind)
}

func TestTop(t *testing.T) {
	summaries, _ := SummarizeBatch([]model.PriceSeries{
		twoPoint("A", 1, 2),
		twoPoint("B", 1, 3),
		twoPoint("C", 1, 4),
	})
	top := Top(summaries, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].Symbol)
	assert.Len(t, Top(summaries, 10), 3)
}
