package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	reportTimeframe string
	reportDays      int
	reportTimeout   time.Duration
)

var overviewCmd = &cobra.Command{
	Use:   "overview [SYMBOL...]",
	Short: "Rank the watchlist (or the given symbols) by percent change",
	Example: `  marketlens overview
  marketlens overview --timeframe YTD AAPL MSFT NVDA`,
	RunE: runOverview,
}

var compareCmd = &cobra.Command{
	Use:   "compare [SYMBOL...]",
	Short: "Compare normalized performance of the configured indices",
	RunE:  runCompare,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast SYMBOL",
	Short: "Project closes with a moving average and a linear trend",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators SYMBOL",
	Short: "Show the latest technical indicator values",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndicators,
}

func init() {
	rootCmd.AddCommand(overviewCmd, compareCmd, forecastCmd, indicatorsCmd)
	for _, c := range []*cobra.Command{overviewCmd, compareCmd, forecastCmd, indicatorsCmd} {
		c.Flags().DurationVar(&reportTimeout, "timeout", 2*time.Minute, "Overall timeout")
	}
	overviewCmd.Flags().StringVar(&reportTimeframe, "timeframe", "", "Timeframe (1W|1M|YTD|1Y), defaults to schedule.timeframe")
	compareCmd.Flags().StringVar(&reportTimeframe, "timeframe", "", "Timeframe (1W|1M|YTD|1Y), defaults to schedule.timeframe")
	forecastCmd.Flags().IntVar(&reportDays, "days", 0, "Forecast horizon in days, defaults to forecast.horizon_days")
}

func withApp(run func(ctx context.Context, a *app) error) error {
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unsupported format %q", outputFormat)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()
	return run(ctx, a)
}

func (a *app) timeframe() (model.Timeframe, error) {
	if reportTimeframe != "" {
		return model.ParseTimeframe(reportTimeframe)
	}
	return model.ParseTimeframe(a.cfg.Schedule.Timeframe)
}

func upper(args []string, fallback []string) []string {
	if len(args) == 0 {
		return fallback
	}
	out := make([]string, len(args))
	for i, s := range args {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func runOverview(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		tf, err := a.timeframe()
		if err != nil {
			return err
		}
		ov, err := a.collector.Overview(ctx, upper(args, a.cfg.Watchlist), tf)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(os.Stdout, ov)
		}
		return writeOverview(os.Stdout, ov)
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		tf, err := a.timeframe()
		if err != nil {
			return err
		}
		cmp, err := a.collector.Compare(ctx, upper(args, a.cfg.Indices), tf)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(os.Stdout, cmp)
		}
		return writeComparison(os.Stdout, cmp)
	})
}

func runForecast(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		days, err := a.cfg.ClampHorizon(reportDays)
		if err != nil {
			return err
		}
		d, err := a.collector.Dashboard(ctx, strings.ToUpper(args[0]), a.cfg.Forecast.LookbackDays, days)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(os.Stdout, d.Forecasts)
		}
		return writeForecast(os.Stdout, d)
	})
}

func runIndicators(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		d, err := a.collector.Dashboard(ctx, strings.ToUpper(args[0]), a.cfg.Forecast.LookbackDays, a.cfg.Forecast.HorizonDays)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(os.Stdout, d.Indicators)
		}
		return writeIndicators(os.Stdout, d)
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fixed(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }

func fixedNull(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return fixed(v.Float64)
}

func writeSkipped(w io.Writer, skipped []model.Skipped) {
	for _, s := range skipped {
		fmt.Fprintf(w, "skipped %s (%s): %s\n", s.Symbol, s.Kind, s.Err)
	}
}

func writeOverview(w io.Writer, ov *collector.Overview) error {
	fmt.Fprintf(w, "Overview %s: %s to %s\n\n", ov.Timeframe, ov.Start.Format("2006-01-02"), ov.End.Format("2006-01-02"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSYMBOL\tNAME\tSTART\tEND\tCHANGE %")
	for i, s := range ov.Summaries {
		name := ""
		if s.Profile != nil {
			name = s.Profile.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, s.Symbol, name, fixed(s.StartPrice), fixed(s.EndPrice), fixed(s.PctChange))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	writeSkipped(w, ov.Skipped)
	return nil
}

func writeComparison(w io.Writer, cmp *collector.Comparison) error {
	fmt.Fprintf(w, "Comparison %s: %s to %s\n\n", cmp.Timeframe, cmp.Start.Format("2006-01-02"), cmp.End.Format("2006-01-02"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tPOINTS\tLAST\tCHANGE %")
	for _, s := range cmp.Series {
		if len(s.Points) == 0 {
			continue
		}
		last := s.Points[len(s.Points)-1].Value
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Symbol, len(s.Points), decimal.NewFromFloat(last).StringFixed(4), fixed((last-1)*100))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	writeSkipped(w, cmp.Skipped)
	return nil
}

func writeForecast(w io.Writer, d *collector.Dashboard) error {
	last := d.Series.Last()
	fmt.Fprintf(w, "%s last close %s on %s (range %s - %s)\n\n",
		d.Symbol, fixed(last.Close), last.Date.Format("2006-01-02"), fixed(d.Low), fixed(d.High))
	if d.ForecastError != "" {
		_, err := fmt.Fprintf(w, "forecast unavailable: %s\n", d.ForecastError)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tMOVING AVERAGE\tLINEAR TREND")
	ma, lr := d.Forecasts.MovingAverage.Points, d.Forecasts.LinearRegression.Points
	for i := range ma {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ma[i].Date.Format("2006-01-02"), fixed(ma[i].PredictedClose), fixed(lr[i].PredictedClose))
	}
	return tw.Flush()
}

func writeIndicators(w io.Writer, d *collector.Dashboard) error {
	set := d.Indicators
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", d.Symbol, set.Dates[len(set.Dates)-1].Format("2006-01-02"))
	for _, name := range model.IndicatorNames {
		fmt.Fprintf(tw, "%s\t%s\n", strings.ToUpper(name), fixedNull(set.Latest(name)))
	}
	return tw.Flush()
}
