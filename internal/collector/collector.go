package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketLens/internal/calculator"
	"MarketLens/internal/forecast"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/performance"
	"MarketLens/internal/recorder"
	"MarketLens/internal/strategy"

	"github.com/rs/zerolog/log"
)

// Dashboard is everything the forecasting page shows for one symbol.
// ForecastError is set when the series is too short to forecast; the other
// fields are still filled in.
type Dashboard struct {
	Symbol        string                   `json:"symbol"`
	Profile       *model.Profile           `json:"profile,omitempty"`
	Start         time.Time                `json:"start"`
	End           time.Time                `json:"end"`
	Series        model.PriceSeries        `json:"series"`
	Normalized    model.NormalizedSeries   `json:"normalized"`
	Indicators    model.IndicatorSet       `json:"indicators"`
	Forecasts     model.Forecasts          `json:"forecasts"`
	ForecastError string                   `json:"forecast_error,omitempty"`
	Signal        model.Signal             `json:"signal"`
	Summary       model.PerformanceSummary `json:"summary"`
	High          float64                  `json:"high"`
	Low           float64                  `json:"low"`
}

// Overview ranks a watchlist by performance over a timeframe.
type Overview struct {
	Timeframe model.Timeframe            `json:"timeframe"`
	Start     time.Time                  `json:"start"`
	End       time.Time                  `json:"end"`
	Summaries []model.PerformanceSummary `json:"summaries"`
	Skipped   []model.Skipped            `json:"skipped,omitempty"`
}

// Comparison holds normalized series of several symbols over a timeframe.
type Comparison struct {
	Timeframe model.Timeframe          `json:"timeframe"`
	Start     time.Time                `json:"start"`
	End       time.Time                `json:"end"`
	Series    []model.NormalizedSeries `json:"series"`
	Skipped   []model.Skipped          `json:"skipped,omitempty"`
}

// Collector orchestrates fetching and computation. Symbols are processed one
// after another; a failing symbol is skipped and reported, never fatal.
type Collector struct {
	Source     Source
	Indicators model.IndicatorConfig
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(src Source, cfg model.IndicatorConfig, rec recorder.Recorder, m *metrics.Metrics) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{
		Source:     src,
		Indicators: cfg,
		Recorder:   rec,
		Metrics:    m,
		Now:        time.Now,
	}
}

// History fetches and cleans the series of one symbol. An empty result is
// reported as ErrEmptySeries.
func (c *Collector) History(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	began := time.Now()
	raw, err := c.Source.FetchHistory(ctx, symbol, start, end)
	elapsed := time.Since(began).Seconds()
	if err != nil {
		c.Metrics.ObserveFetch(c.Source.Name(), "error", elapsed)
		return model.PriceSeries{}, fmt.Errorf("%s history %s: %w", c.Source.Name(), symbol, err)
	}
	series := calculator.Clean(raw)
	series.Symbol = symbol
	if series.Empty() {
		c.Metrics.ObserveFetch(c.Source.Name(), "empty", elapsed)
		return series, fmt.Errorf("%s history %s: %w", c.Source.Name(), symbol, model.ErrEmptySeries)
	}
	c.Metrics.ObserveFetch(c.Source.Name(), "ok", elapsed)
	return series, nil
}

// profile fetches metadata best-effort; failures only get logged.
func (c *Collector) profile(ctx context.Context, symbol string) *model.Profile {
	p, err := c.Source.FetchProfile(ctx, symbol)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("profile unavailable")
		return nil
	}
	return p
}

// Dashboard computes the forecasting page for symbol over the last lookbackDays.
func (c *Collector) Dashboard(ctx context.Context, symbol string, lookbackDays, horizon int) (*Dashboard, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("lookback %d days: %w", lookbackDays, model.ErrConfiguration)
	}
	now := c.Now()
	run := recorder.NewRun(recorder.KindDashboard, "", []string{symbol}, now)
	defer c.finish(run)

	end := model.Day(now)
	start := end.AddDate(0, 0, -lookbackDays)
	d, err := c.dashboard(ctx, symbol, start, end, horizon)
	if err != nil {
		c.skip(run, symbol, err)
		return nil, err
	}
	return d, nil
}

func (c *Collector) dashboard(ctx context.Context, symbol string, start, end time.Time, horizon int) (*Dashboard, error) {
	series, err := c.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Symbol: symbol, Start: start, End: end, Series: series}

	if d.Normalized, err = calculator.Normalize(series); err != nil {
		return nil, err
	}
	if d.Indicators, err = calculator.ComputeIndicators(series, c.Indicators); err != nil {
		return nil, err
	}
	if d.Forecasts, err = forecast.Forecast(series, horizon); err != nil {
		if !errors.Is(err, model.ErrInsufficientData) {
			return nil, err
		}
		log.Warn().Str("symbol", symbol).Err(err).Msg("forecast skipped")
		d.Forecasts = model.Forecasts{}
		d.ForecastError = err.Error()
	}
	d.Signal = strategy.Evaluate(series.Last().Close, d.Indicators)
	if d.Summary, err = performance.Summarize(series); err != nil {
		return nil, err
	}
	if d.High, d.Low, err = calculator.HighLow(series); err != nil {
		return nil, err
	}
	d.Profile = c.profile(ctx, symbol)
	d.Summary.Profile = d.Profile
	return d, nil
}

// Overview summarizes every symbol over tf and ranks them by percent change.
func (c *Collector) Overview(ctx context.Context, symbols []string, tf model.Timeframe) (*Overview, error) {
	now := c.Now()
	run := recorder.NewRun(recorder.KindOverview, string(tf), symbols, now)
	defer c.finish(run)

	start, end := tf.Range(now)
	ov := &Overview{Timeframe: tf, Start: start, End: end}

	batch := make([]model.PriceSeries, 0, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := c.History(ctx, sym, start, end)
		if err != nil {
			c.skip(run, sym, err)
			continue
		}
		batch = append(batch, series)
	}

	summaries, skipped := performance.SummarizeBatch(batch)
	for _, s := range skipped {
		c.skipEntry(run, s)
	}
	for i := range summaries {
		summaries[i].Profile = c.profile(ctx, summaries[i].Symbol)
	}
	ov.Summaries = summaries
	ov.Skipped = run.Skipped
	return ov, nil
}

// Compare normalizes each symbol's series over tf for a shared-axis chart.
func (c *Collector) Compare(ctx context.Context, symbols []string, tf model.Timeframe) (*Comparison, error) {
	now := c.Now()
	run := recorder.NewRun(recorder.KindCompare, string(tf), symbols, now)
	defer c.finish(run)

	start, end := tf.Range(now)
	cmp := &Comparison{Timeframe: tf, Start: start, End: end}
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := c.History(ctx, sym, start, end)
		if err != nil {
			c.skip(run, sym, err)
			continue
		}
		norm, err := calculator.Normalize(series)
		if err != nil {
			c.skip(run, sym, err)
			continue
		}
		cmp.Series = append(cmp.Series, norm)
	}
	cmp.Skipped = run.Skipped
	return cmp, nil
}

func (c *Collector) skip(run *recorder.Run, symbol string, err error) {
	c.skipEntry(run, model.NewSkipped(symbol, err))
}

func (c *Collector) skipEntry(run *recorder.Run, s model.Skipped) {
	log.Warn().Str("symbol", s.Symbol).Str("kind", s.Kind).Str("run", run.Kind).Msg(s.Err)
	c.Metrics.Skip(s.Kind)
	run.Skipped = append(run.Skipped, s)
}

func (c *Collector) finish(run *recorder.Run) {
	run.Duration = c.Now().Sub(run.StartedAt)
	c.Metrics.Run(run.Kind)
	if err := c.Recorder.RecordRun(run); err != nil {
		log.Error().Err(err).Str("run", run.ID).Msg("record run")
	}
}

// IsNoData reports whether err means the symbol simply had nothing to show.
func IsNoData(err error) bool {
	return errors.Is(err, model.ErrEmptySeries)
}
