package main

import (
	"bytes"
	"testing"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func TestWriteOverview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOverview(&buf, &collector.Overview{
		Timeframe: model.Timeframe1M,
		Start:     day.AddDate(0, -1, 0),
		End:       day,
		Summaries: []model.PerformanceSummary{
			{Symbol: "AAPL", StartPrice: 100, EndPrice: 110.005, PctChange: 10.005, Profile: &model.Profile{Name: "Apple Inc."}},
		},
		Skipped: []model.Skipped{{Symbol: "BAD", Kind: "source", Err: "timeout"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "Overview 1M: 2024-06-01 to 2024-07-01")
	assert.Contains(t, out, "Apple Inc.")
	assert.Contains(t, out, "110.01")
	assert.Contains(t, out, "skipped BAD (source): timeout")
}

func TestWriteForecastAndIndicators(t *testing.T) {
	d := &collector.Dashboard{
		Symbol: "AAPL",
		Series: model.PriceSeries{Points: []model.PricePoint{{Date: day, Close: 100}}},
		Forecasts: model.Forecasts{
			MovingAverage:    model.ForecastResult{Points: []model.ForecastPoint{{Date: day.AddDate(0, 0, 1), PredictedClose: 99}}},
			LinearRegression: model.ForecastResult{Points: []model.ForecastPoint{{Date: day.AddDate(0, 0, 1), PredictedClose: 101}}},
		},
		Indicators: model.IndicatorSet{
			Dates:  []time.Time{day},
			Values: map[string][]null.Float{model.IndicatorSMA: {null.FloatFrom(98.5)}, model.IndicatorRSI: {null.Float{}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeForecast(&buf, d))
	assert.Contains(t, buf.String(), "2024-07-02")
	assert.Contains(t, buf.String(), "99.00")
	assert.Contains(t, buf.String(), "101.00")

	buf.Reset()
	require.NoError(t, writeIndicators(&buf, d))
	assert.Regexp(t, `SMA\s+98\.50`, buf.String())
	assert.Regexp(t, `RSI\s+-`, buf.String())
}

func TestWriteForecast_Unavailable(t *testing.T) {
	d := &collector.Dashboard{
		Symbol:        "NEW",
		Series:        model.PriceSeries{Points: []model.PricePoint{{Date: day, Close: 17}}},
		ForecastError: "need 11 points, have 8: insufficient data",
	}

	var buf bytes.Buffer
	require.NoError(t, writeForecast(&buf, d))
	assert.Contains(t, buf.String(), "NEW last close 17.00")
	assert.Contains(t, buf.String(), "forecast unavailable: need 11 points, have 8: insufficient data")
	assert.NotContains(t, buf.String(), "MOVING AVERAGE")
}
