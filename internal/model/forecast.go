package model

import "time"

// ForecastMethod names a forecasting estimator.
type ForecastMethod string

const (
	MethodMovingAverage    ForecastMethod = "moving_average"
	MethodLinearRegression ForecastMethod = "linear_regression"
)

// ForecastPoint is one predicted close.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
}

// ForecastResult is the projection of one method over HorizonDays future days.
type ForecastResult struct {
	Method      ForecastMethod  `json:"method"`
	HorizonDays int             `json:"horizon_days"`
	Points      []ForecastPoint `json:"points"`
}

// Forecasts bundles the results of both estimators for one series.
type Forecasts struct {
	MovingAverage    ForecastResult `json:"moving_average"`
	LinearRegression ForecastResult `json:"linear_regression"`
}
