package main

import (
	"fmt"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/metrics"
	"MarketLens/internal/recorder"

	"github.com/rs/zerolog/log"
)

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	recorder  recorder.Recorder
	collector *collector.Collector
}

func newSource(cfg *config.Config) (collector.Source, error) {
	switch cfg.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooSource(cfg.Proxy), nil
	case "alpaca":
		return collector.NewAlpacaSource(cfg.DataSource.APIKey, cfg.DataSource.APISecret), nil
	case "mock":
		return &collector.MockSource{BasePrice: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
}

func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newApp loads the config and wires source, recorder and collector.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	guarded := collector.NewGuardedSource(src, cfg.DataSource.RateLimitRPS, cfg.DataSource.Burst, m)
	log.Info().Str("source", guarded.Name()).Msg("data source ready")

	rec := newRecorder(cfg.Database.SQLitePath)
	return &app{
		cfg:       cfg,
		metrics:   m,
		recorder:  rec,
		collector: collector.NewCollector(guarded, cfg.Indicators, rec, m),
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Error().Err(err).Msg("close recorder")
	}
}
