package collector

import (
	"context"
	"time"

	"MarketLens/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Symbols without History get a generated daily series drifting around BasePrice.
type MockSource struct {
	BasePrice float64
	History   map[string]model.PriceSeries
	Profiles  map[string]*model.Profile
	Errors    map[string]error
	Calls     []string
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchHistory(_ context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}
	if s, ok := m.History[symbol]; ok {
		return s, nil
	}
	return generateMockSeries(symbol, m.BasePrice, start, end), nil
}

func (m *MockSource) FetchProfile(_ context.Context, symbol string) (*model.Profile, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	return m.Profiles[symbol], nil
}

func generateMockSeries(symbol string, basePrice float64, start, end time.Time) model.PriceSeries {
	series := model.PriceSeries{Symbol: symbol}
	if basePrice <= 0 {
		return series
	}
	start, end = model.Day(start), model.Day(end)
	count := int(end.Sub(start).Hours()/24) + 1
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		series.Points = append(series.Points, model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: p,
		})
	}
	return series
}
