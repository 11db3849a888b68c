package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"MarketLens/internal/model"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string  `yaml:"provider" validate:"oneof=yahoo alpaca mock"`
		APIKey       string  `yaml:"api_key" validate:"required_if=Provider alpaca"`
		APISecret    string  `yaml:"api_secret" validate:"required_if=Provider alpaca"`
		RateLimitRPS float64 `yaml:"rate_limit_rps" validate:"gt=0"`
		Burst        int     `yaml:"burst" validate:"gt=0"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist" validate:"min=1,dive,required"`
	Indices   []string `yaml:"indices" validate:"dive,required"`
	TopN      int      `yaml:"top_n" validate:"gte=0"`
	Schedule  struct {
		OverviewCron string `yaml:"overview_cron"`
		Timeframe    string `yaml:"timeframe"`
	} `yaml:"schedule"`
	Indicators model.IndicatorConfig `yaml:"indicators"`
	Forecast   struct {
		HorizonDays  int `yaml:"horizon_days" validate:"gtefield=MinHorizon,ltefield=MaxHorizon"`
		MinHorizon   int `yaml:"min_horizon" validate:"gt=0"`
		MaxHorizon   int `yaml:"max_horizon" validate:"gtefield=MinHorizon"`
		LookbackDays int `yaml:"lookback_days" validate:"gt=0"`
	} `yaml:"forecast"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"http"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitSymbols(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_OVERVIEW"); v != "" {
		cfg.Schedule.OverviewCron = v
	}
	if v := os.Getenv("FORECAST_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.HorizonDays = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.RateLimitRPS == 0 {
		c.DataSource.RateLimitRPS = 2
	}
	if c.DataSource.Burst == 0 {
		c.DataSource.Burst = 4
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}
	}
	if len(c.Indices) == 0 {
		c.Indices = []string{"^GSPC", "^IXIC", "^DJI"}
	}
	if c.TopN == 0 {
		c.TopN = 10
	}
	if c.Schedule.OverviewCron == "" {
		c.Schedule.OverviewCron = "0 0 22 * * 1-5"
	}
	if c.Schedule.Timeframe == "" {
		c.Schedule.Timeframe = string(model.Timeframe1W)
	}

	def := model.DefaultIndicatorConfig()
	ind := &c.Indicators
	if ind.SMAWindow == 0 {
		ind.SMAWindow = def.SMAWindow
	}
	if ind.EMAWindow == 0 {
		ind.EMAWindow = def.EMAWindow
	}
	if ind.RSIWindow == 0 {
		ind.RSIWindow = def.RSIWindow
	}
	if ind.MACDFast == 0 {
		ind.MACDFast = def.MACDFast
	}
	if ind.MACDSlow == 0 {
		ind.MACDSlow = def.MACDSlow
	}
	if ind.MACDSignal == 0 {
		ind.MACDSignal = def.MACDSignal
	}
	if ind.BBWindow == 0 {
		ind.BBWindow = def.BBWindow
	}
	if ind.BBK == 0 {
		ind.BBK = def.BBK
	}

	if c.Forecast.MinHorizon == 0 {
		c.Forecast.MinHorizon = 5
	}
	if c.Forecast.MaxHorizon == 0 {
		c.Forecast.MaxHorizon = 60
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = 15
	}
	if c.Forecast.LookbackDays == 0 {
		c.Forecast.LookbackDays = 365
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/marketlens.db"
	}
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

var validate = validator.New()

// Validate checks field constraints, the indicator windows and the schedule timeframe.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be below indicators.macd_slow")
	}
	if _, err := model.ParseTimeframe(c.Schedule.Timeframe); err != nil {
		return fmt.Errorf("schedule.timeframe: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether a bot token is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// ClampHorizon validates a requested forecast horizon against the configured bounds.
func (c *Config) ClampHorizon(days int) (int, error) {
	if days == 0 {
		return c.Forecast.HorizonDays, nil
	}
	if days < c.Forecast.MinHorizon || days > c.Forecast.MaxHorizon {
		return 0, fmt.Errorf("forecast days must be between %d and %d, got %d: %w",
			c.Forecast.MinHorizon, c.Forecast.MaxHorizon, days, model.ErrConfiguration)
	}
	return days, nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if sym := strings.ToUpper(strings.TrimSpace(part)); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
