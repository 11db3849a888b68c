package collector

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/model"
)

// ErrUnavailable marks failures of the provider itself (transport errors,
// throttling, 5xx) as opposed to problems with one symbol. Only these trip
// the circuit breaker in GuardedSource.
var ErrUnavailable = errors.New("provider unavailable")

// Source is a best-effort market data provider.
//
// FetchHistory returns daily bars in [start, end]; an empty series is a valid
// answer for unknown or delisted symbols. FetchProfile returns nil, nil when
// the provider has no metadata for the symbol.
type Source interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
	FetchProfile(ctx context.Context, symbol string) (*model.Profile, error)
	Name() string
}
