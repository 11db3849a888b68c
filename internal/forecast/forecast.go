// Package forecast projects a price series forward with two naive estimators:
// a flat trailing moving average and an ordinary least squares trend line.
package forecast

import (
	"fmt"
	"time"

	"MarketLens/internal/model"
)

// MAWindow is the number of closes averaged by the moving-average forecast.
const MAWindow = 10

// Forecast runs both estimators over series for horizon future days.
func Forecast(series model.PriceSeries, horizon int) (model.Forecasts, error) {
	ma, err := MovingAverage(series, horizon)
	if err != nil {
		return model.Forecasts{}, err
	}
	lr, err := LinearTrend(series, horizon)
	if err != nil {
		return model.Forecasts{}, err
	}
	return model.Forecasts{MovingAverage: ma, LinearRegression: lr}, nil
}

// MovingAverage projects the mean of the MAWindow closes preceding the last
// close flat across the horizon. The window ends one step before the last
// point, so the series needs at least MAWindow+1 points.
func MovingAverage(series model.PriceSeries, horizon int) (model.ForecastResult, error) {
	if err := check(series, horizon); err != nil {
		return model.ForecastResult{}, fmt.Errorf("moving average forecast: %w", err)
	}
	n := series.Len()
	if n < MAWindow+1 {
		return model.ForecastResult{}, fmt.Errorf("moving average forecast %s: need %d points, have %d: %w",
			series.Symbol, MAWindow+1, n, model.ErrInsufficientData)
	}

	sum := 0.0
	for _, p := range series.Points[n-1-MAWindow : n-1] {
		sum += p.Close
	}
	mean := sum / MAWindow

	dates := FutureDates(series.Last().Date, horizon)
	points := make([]model.ForecastPoint, horizon)
	for i, d := range dates {
		points[i] = model.ForecastPoint{Date: d, PredictedClose: mean}
	}
	return model.ForecastResult{Method: model.MethodMovingAverage, HorizonDays: horizon, Points: points}, nil
}

// LinearTrend fits close = a + b·day by ordinary least squares over the whole
// series, where day is the date's day count since the Unix epoch, and evaluates
// the line on each future date.
func LinearTrend(series model.PriceSeries, horizon int) (model.ForecastResult, error) {
	if err := check(series, horizon); err != nil {
		return model.ForecastResult{}, fmt.Errorf("linear forecast: %w", err)
	}
	if series.Len() < 2 {
		return model.ForecastResult{}, fmt.Errorf("linear forecast %s: need 2 points, have %d: %w",
			series.Symbol, series.Len(), model.ErrInsufficientData)
	}

	slope, intercept, err := fitLine(series)
	if err != nil {
		return model.ForecastResult{}, fmt.Errorf("linear forecast %s: %w", series.Symbol, err)
	}

	dates := FutureDates(series.Last().Date, horizon)
	points := make([]model.ForecastPoint, horizon)
	for i, d := range dates {
		points[i] = model.ForecastPoint{Date: d, PredictedClose: intercept + slope*ordinal(d)}
	}
	return model.ForecastResult{Method: model.MethodLinearRegression, HorizonDays: horizon, Points: points}, nil
}

// FutureDates returns the horizon calendar days following last.
func FutureDates(last time.Time, horizon int) []time.Time {
	last = model.Day(last)
	dates := make([]time.Time, horizon)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}

func check(series model.PriceSeries, horizon int) error {
	if horizon <= 0 {
		return fmt.Errorf("horizon %d: %w", horizon, model.ErrConfiguration)
	}
	if series.Empty() {
		return fmt.Errorf("%s: %w", series.Symbol, model.ErrEmptySeries)
	}
	return nil
}

func ordinal(t time.Time) float64 {
	return float64(model.Day(t).Unix() / 86400)
}

// fitLine solves the least squares line on centred ordinals.
func fitLine(series model.PriceSeries) (slope, intercept float64, err error) {
	n := float64(series.Len())
	var meanX, meanY float64
	for _, p := range series.Points {
		meanX += ordinal(p.Date)
		meanY += p.Close
	}
	meanX /= n
	meanY /= n

	var sxx, sxy float64
	for _, p := range series.Points {
		dx := ordinal(p.Date) - meanX
		sxx += dx * dx
		sxy += dx * (p.Close - meanY)
	}
	if sxx == 0 {
		return 0, 0, fmt.Errorf("all points share one date: %w", model.ErrInsufficientData)
	}
	slope = sxy / sxx
	intercept = meanY - slope*meanX
	return slope, intercept, nil
}
