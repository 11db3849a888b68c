package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/guregu/null/v6"
)

const alpacaPaperURL = "https://paper-api.alpaca.markets"

type alpacaBars interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

type alpacaAssets interface {
	GetAsset(symbol string) (*alpaca.Asset, error)
}

// AlpacaSource implements Source using Alpaca's market data API (IEX feed).
type AlpacaSource struct {
	data   alpacaBars
	assets alpacaAssets
}

// NewAlpacaSource creates a source authenticated with the given key pair.
func NewAlpacaSource(apiKey, apiSecret string) *AlpacaSource {
	return &AlpacaSource{
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		assets: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   alpacaPaperURL,
		}),
	}
}

func (a *AlpacaSource) Name() string { return "alpaca" }

// alpacaError wraps err, marking it ErrUnavailable unless Alpaca answered with
// a client error about the request itself (unknown symbol, bad range).
func alpacaError(what, symbol string, err error) error {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError &&
		apiErr.StatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("alpaca %s %s: %w", what, symbol, err)
	}
	return fmt.Errorf("alpaca %s %s: %w: %w", what, symbol, ErrUnavailable, err)
}

// FetchHistory returns split-adjusted daily bars. The Alpaca client has no
// context support, so ctx is only checked before the call.
func (a *AlpacaSource) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}
	bars, err := a.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      model.Day(start),
		End:        model.Day(end).AddDate(0, 0, 1),
		Feed:       marketdata.IEX,
		Adjustment: marketdata.Split,
	})
	if err != nil {
		return model.PriceSeries{}, alpacaError("bars", symbol, err)
	}

	series := model.PriceSeries{Symbol: symbol, Points: make([]model.PricePoint, 0, len(bars))}
	for _, b := range bars {
		series.Points = append(series.Points, model.PricePoint{
			Date:   b.Timestamp,
			Open:   null.FloatFrom(b.Open),
			High:   null.FloatFrom(b.High),
			Low:    null.FloatFrom(b.Low),
			Close:  b.Close,
			Volume: null.FloatFrom(float64(b.Volume)),
		})
	}
	return calculator.Clean(series), nil
}

// FetchProfile combines the asset record with the latest trade price.
func (a *AlpacaSource) FetchProfile(ctx context.Context, symbol string) (*model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	asset, err := a.assets.GetAsset(symbol)
	if err != nil {
		return nil, alpacaError("asset", symbol, err)
	}
	if asset == nil {
		return nil, nil
	}
	p := &model.Profile{Symbol: symbol, Name: asset.Name, Currency: "USD"}

	trade, err := a.data.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{Feed: marketdata.IEX})
	if err == nil && trade != nil && trade.Price > 0 {
		p.LastPrice = null.FloatFrom(trade.Price)
	}
	return p, nil
}
