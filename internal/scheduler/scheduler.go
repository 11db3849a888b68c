package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const helpText = "Available commands:\n" +
	"• /overview [1W|1M|YTD|1Y]\n" +
	"• /forecast SYMBOL [DAYS]\n" +
	"• /indicators SYMBOL\n" +
	"• /compare [1W|1M|YTD|1Y]"

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic overview report and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Config    *config.Config
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. tn may be nil when no chat is configured.
func NewScheduler(ctx context.Context, col *collector.Collector, tn Sender, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Config:    cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the overview report on its configured schedule.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.Config.Schedule.OverviewCron, s.overviewTask); err != nil {
		return fmt.Errorf("register overview task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunOverviewNow executes the overview report immediately.
func (s *Scheduler) RunOverviewNow() {
	s.overviewTask()
}

func (s *Scheduler) overviewTask() {
	log.Info().Msg("running overview task")
	tf, err := model.ParseTimeframe(s.Config.Schedule.Timeframe)
	if err != nil {
		log.Error().Err(err).Msg("overview timeframe")
		return
	}
	ov, err := s.Collector.Overview(s.Ctx, s.Config.Watchlist, tf)
	if err != nil {
		log.Error().Err(err).Msg("overview task")
		s.trySend(notifier.FormatError("overview", err))
		return
	}
	s.trySend(notifier.FormatOverview(ov, s.Config.TopN))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	// Group chats address commands as /name@BotName.
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	args := fields[1:]

	var reply string
	var err error
	switch name {
	case "/overview":
		reply, err = s.overview(ctx, args)
	case "/forecast":
		reply, err = s.forecast(ctx, args)
	case "/indicators":
		reply, err = s.indicators(ctx, args)
	case "/compare":
		reply, err = s.compare(ctx, args)
	default:
		return helpText
	}
	if err != nil {
		log.Warn().Err(err).Str("command", command).Msg("command failed")
		if collector.IsNoData(err) && len(args) > 0 {
			return fmt.Sprintf("No price data for %s.", strings.ToUpper(args[0]))
		}
		return notifier.FormatError(name, err)
	}
	return reply
}

func timeframeArg(args []string, fallback string) (model.Timeframe, error) {
	if len(args) > 0 {
		return model.ParseTimeframe(args[0])
	}
	return model.ParseTimeframe(fallback)
}

func symbolArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing symbol: %w", model.ErrConfiguration)
	}
	return strings.ToUpper(args[0]), nil
}

func (s *Scheduler) overview(ctx context.Context, args []string) (string, error) {
	tf, err := timeframeArg(args, s.Config.Schedule.Timeframe)
	if err != nil {
		return "", err
	}
	ov, err := s.Collector.Overview(ctx, s.Config.Watchlist, tf)
	if err != nil {
		return "", err
	}
	return notifier.FormatOverview(ov, s.Config.TopN), nil
}

func (s *Scheduler) forecast(ctx context.Context, args []string) (string, error) {
	symbol, err := symbolArg(args)
	if err != nil {
		return "", err
	}
	days := 0
	if len(args) > 1 {
		if days, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("days %q is not a number: %w", args[1], model.ErrConfiguration)
		}
	}
	if days, err = s.Config.ClampHorizon(days); err != nil {
		return "", err
	}
	d, err := s.Collector.Dashboard(ctx, symbol, s.Config.Forecast.LookbackDays, days)
	if err != nil {
		return "", err
	}
	return notifier.FormatForecast(d), nil
}

func (s *Scheduler) indicators(ctx context.Context, args []string) (string, error) {
	symbol, err := symbolArg(args)
	if err != nil {
		return "", err
	}
	d, err := s.Collector.Dashboard(ctx, symbol, s.Config.Forecast.LookbackDays, s.Config.Forecast.HorizonDays)
	if err != nil {
		return "", err
	}
	return notifier.FormatIndicators(d), nil
}

func (s *Scheduler) compare(ctx context.Context, args []string) (string, error) {
	tf, err := timeframeArg(args, s.Config.Schedule.Timeframe)
	if err != nil {
		return "", err
	}
	cmp, err := s.Collector.Compare(ctx, s.Config.Indices, tf)
	if err != nil {
		return "", err
	}
	return notifier.FormatComparison(cmp), nil
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Msg("no notifier configured, report not sent")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
