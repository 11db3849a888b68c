package scheduler

import (
	"context"
	"testing"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeSender) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Watchlist = []string{"AAPL", "MSFT"}
	cfg.Indices = []string{"^GSPC", "^IXIC"}
	cfg.Schedule.OverviewCron = "0 0 22 * * 1-5"
	cfg.Schedule.Timeframe = "1W"
	cfg.TopN = 10
	cfg.Indicators = model.DefaultIndicatorConfig()
	cfg.Forecast.HorizonDays = 15
	cfg.Forecast.MinHorizon = 5
	cfg.Forecast.MaxHorizon = 60
	cfg.Forecast.LookbackDays = 365

	src := &collector.MockSource{
		BasePrice: 100,
		History:   map[string]model.PriceSeries{"EMPTY": {Symbol: "EMPTY"}},
	}
	col := collector.NewCollector(src, cfg.Indicators, nil, nil)
	col.Now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	sender := &fakeSender{}
	return NewScheduler(context.Background(), col, sender, cfg), sender
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)
	ctx := context.Background()

	tests := []struct {
		command string
		want    []string
	}{
		{"/overview", []string{"Market overview</b> | 1W", "AAPL", "MSFT"}},
		{"/overview@MarketLensBot ytd", []string{"Market overview</b> | YTD"}},
		{"/forecast aapl 30", []string{"Forecast</b> | AAPL", "Moving average</b> (30 days)", "Linear regression</b> (30 days)"}},
		{"/forecast MSFT", []string{"(15 days)"}},
		{"/indicators AAPL", []string{"Indicators</b> | AAPL", "SMA(20):", "RSI(14):"}},
		{"/compare 1M", []string{"Index comparison</b> | 1M", "^GSPC:", "^IXIC:"}},
		{"/forecast AAPL 3", []string{"(configuration)", "between 5 and 60"}},
		{"/forecast AAPL soon", []string{"(configuration)", "not a number"}},
		{"/forecast", []string{"(configuration)", "missing symbol"}},
		{"/overview 2W", []string{"(configuration)"}},
		{"/forecast empty", []string{"No price data for EMPTY."}},
		{"/start", []string{"Available commands"}},
		{"", []string{"Available commands"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			reply := s.HandleCommand(ctx, tt.command)
			for _, w := range tt.want {
				assert.Contains(t, reply, w)
			}
		})
	}
}

func TestRunOverviewNow(t *testing.T) {
	s, sender := newTestScheduler(t)
	s.RunOverviewNow()
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Market overview</b> | 1W")
}

func TestRunOverviewNow_WithoutNotifier(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Notifier = nil
	assert.NotPanics(t, s.RunOverviewNow)
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), 1)

	s, _ = newTestScheduler(t)
	s.Config.Schedule.OverviewCron = "not a cron"
	assert.Error(t, s.RegisterAll())
}
