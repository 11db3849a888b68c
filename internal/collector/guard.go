package collector

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/metrics"
	"MarketLens/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardedSource wraps a Source with a client-side rate limit and a circuit
// breaker, so a failing provider is not hammered symbol after symbol.
type GuardedSource struct {
	inner   Source
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedSource limits inner to rps requests per second with the given burst.
func NewGuardedSource(inner Source, rps float64, burst int, m *metrics.Metrics) *GuardedSource {
	st := gobreaker.Settings{Name: inner.Name()}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	// A bad symbol says nothing about the provider; only outages count.
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled) || !errors.Is(err, ErrUnavailable)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		m.SetBreakerState(name, float64(to))
	}
	if burst <= 0 {
		burst = 1
	}
	return &GuardedSource{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

func (g *GuardedSource) Name() string { return g.inner.Name() }

func (g *GuardedSource) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return model.PriceSeries{}, err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.FetchHistory(ctx, symbol, start, end)
	})
	if err != nil {
		return model.PriceSeries{}, err
	}
	return out.(model.PriceSeries), nil
}

func (g *GuardedSource) FetchProfile(ctx context.Context, symbol string) (*model.Profile, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.FetchProfile(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	p, _ := out.(*model.Profile)
	return p, nil
}
