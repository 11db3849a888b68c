package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlpaca struct {
	bars    []marketdata.Bar
	req     marketdata.GetBarsRequest
	trade   *marketdata.Trade
	asset   *alpaca.Asset
	barsErr error
}

func (f *fakeAlpaca) GetBars(_ string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.req = req
	return f.bars, f.barsErr
}

func (f *fakeAlpaca) GetLatestTrade(_ string, _ marketdata.GetLatestTradeRequest) (*marketdata.Trade, error) {
	return f.trade, nil
}

func (f *fakeAlpaca) GetAsset(_ string) (*alpaca.Asset, error) { return f.asset, nil }

func TestAlpacaSource_FetchHistory(t *testing.T) {
	d := time.Date(2024, time.May, 6, 4, 0, 0, 0, time.UTC)
	fake := &fakeAlpaca{bars: []marketdata.Bar{
		{Timestamp: d.AddDate(0, 0, 1), Open: 11, High: 12, Low: 10, Close: 11.5, Volume: 900},
		{Timestamp: d, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
	}}
	src := &AlpacaSource{data: fake, assets: fake}

	s, err := src.FetchHistory(context.Background(), "AAPL", d, d.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "alpaca", src.Name())
	assert.Equal(t, []float64{10.5, 11.5}, s.Closes())
	assert.Equal(t, time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	assert.Equal(t, 1000.0, s.Points[0].Volume.ValueOrZero())
	assert.Equal(t, marketdata.OneDay, fake.req.TimeFrame)
	assert.Equal(t, marketdata.IEX, fake.req.Feed)

	fake.barsErr = errors.New("forbidden")
	_, err = src.FetchHistory(context.Background(), "AAPL", d, d)
	assert.ErrorContains(t, err, "alpaca bars AAPL")
}

func TestAlpacaError_ClassifiesProviderFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"unknown symbol", &alpaca.APIError{StatusCode: 404, Message: "not found"}, false},
		{"bad request", &alpaca.APIError{StatusCode: 422, Message: "invalid start"}, false},
		{"throttled", &alpaca.APIError{StatusCode: 429, Message: "too many requests"}, true},
		{"server error", &alpaca.APIError{StatusCode: 503, Message: "unavailable"}, true},
		{"transport", errors.New("dial tcp: connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := alpacaError("bars", "AAPL", tt.err)
			assert.ErrorContains(t, err, "alpaca bars AAPL")
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestAlpacaSource_FetchProfile(t *testing.T) {
	fake := &fakeAlpaca{
		asset: &alpaca.Asset{Symbol: "AAPL", Name: "Apple Inc. Common Stock"},
		trade: &marketdata.Trade{Price: 190.25},
	}
	src := &AlpacaSource{data: fake, assets: fake}

	p, err := src.FetchProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Apple Inc. Common Stock", p.Name)
	assert.Equal(t, 190.25, p.LastPrice.ValueOrZero())
}
