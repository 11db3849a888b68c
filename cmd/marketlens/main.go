package main

import (
	"fmt"
	"os"
	"time"

	"MarketLens/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	outputFormat string
)

// rootCmd is the base command for the MarketLens CLI
var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "Equity indicators, performance overviews and price forecasts",
	Long: `MarketLens fetches daily prices, computes technical indicators
(SMA, EMA, RSI, MACD, Bollinger Bands), ranks a watchlist by performance
and projects closes with a moving average and a linear trend.

Run 'marketlens serve' for the HTTP API, Telegram bot and scheduled reports,
or one of the report commands for a single answer on stdout.`,
	SilenceUsage: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format for report commands (table|json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads, validates and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
