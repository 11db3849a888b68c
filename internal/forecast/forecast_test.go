package forecast

import (
	"testing"
	"time"

	"MarketLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func linearSeries(n int, start, step float64) model.PriceSeries {
	points := make([]model.PricePoint, n)
	for i := range points {
		points[i] = model.PricePoint{Date: day0.AddDate(0, 0, i), Close: start + step*float64(i)}
	}
	return model.PriceSeries{Symbol: "LIN", Points: points}
}

func TestMovingAverage_FlatTrailingMean(t *testing.T) {
	s := linearSeries(30, 100, 1)
	res, err := MovingAverage(s, 15)
	require.NoError(t, err)

	assert.Equal(t, model.MethodMovingAverage, res.Method)
	assert.Equal(t, 15, res.HorizonDays)
	require.Len(t, res.Points, 15)

	// The ten closes before the last one are 119..128.
	want := 0.0
	for i := 19; i <= 28; i++ {
		want += s.Points[i].Close
	}
	want /= 10
	for _, p := range res.Points {
		assert.Equal(t, res.Points[0].PredictedClose, p.PredictedClose)
	}
	assert.InDelta(t, want, res.Points[0].PredictedClose, 1e-12)
	assert.InDelta(t, 123.5, res.Points[0].PredictedClose, 1e-12)
}

func TestMovingAverage_NeedsElevenPoints(t *testing.T) {
	_, err := MovingAverage(linearSeries(10, 1, 1), 5)
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	res, err := MovingAverage(linearSeries(11, 1, 1), 5)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, res.Points[0].PredictedClose, 1e-12)
}

func TestLinearTrend_ExactContinuation(t *testing.T) {
	s := linearSeries(60, 100, 2)
	res, err := LinearTrend(s, 10)
	require.NoError(t, err)
	assert.Equal(t, model.MethodLinearRegression, res.Method)
	require.Len(t, res.Points, 10)
	for i, p := range res.Points {
		assert.InDelta(t, 100+2*float64(60+i), p.PredictedClose, 1e-6)
	}
}

func TestLinearTrend_UsesCalendarGaps(t *testing.T) {
	// Two points a week apart, rising 7: the slope is one per calendar day.
	s := model.PriceSeries{Symbol: "GAP", Points: []model.PricePoint{
		{Date: day0, Close: 10},
		{Date: day0.AddDate(0, 0, 7), Close: 17},
	}}
	res, err := LinearTrend(s, 3)
	require.NoError(t, err)
	assert.InDelta(t, 18, res.Points[0].PredictedClose, 1e-9)
	assert.InDelta(t, 20, res.Points[2].PredictedClose, 1e-9)
}

func TestLinearTrend_SinglePoint(t *testing.T) {
	_, err := LinearTrend(linearSeries(1, 5, 0), 5)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestForecast_Errors(t *testing.T) {
	_, err := Forecast(model.PriceSeries{Symbol: "NONE"}, 5)
	assert.ErrorIs(t, err, model.ErrEmptySeries)

	_, err = Forecast(linearSeries(30, 1, 1), 0)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestForecast_DatesFollowLastDay(t *testing.T) {
	s := linearSeries(20, 50, 0.5)
	s.Points[19].Date = s.Points[19].Date.Add(16 * time.Hour)
	fc, err := Forecast(s, 3)
	require.NoError(t, err)

	last := model.Day(s.Last().Date)
	for i, p := range fc.MovingAverage.Points {
		assert.Equal(t, last.AddDate(0, 0, i+1), p.Date)
		assert.Equal(t, p.Date, fc.LinearRegression.Points[i].Date)
	}
}

func TestFutureDates_CrossesMonthEnd(t *testing.T) {
	dates := FutureDates(time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), 3)
	assert.Equal(t, []time.Time{
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
	}, dates)
}
