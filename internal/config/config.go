package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"WatchDesk/internal/model"
)

const (
	ProviderFinnhub = "finnhub"
	ProviderBackend = "backend"
	ProviderMock    = "mock"
)

// DefaultRefreshCron refreshes every 30 minutes on weekdays.
const DefaultRefreshCron = "0 */30 * * * 1-5"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string `yaml:"provider"`
		BaseURL       string `yaml:"base_url"`
		APIKey        string `yaml:"api_key"`
		NewsDays      int    `yaml:"news_days"`
		SentimentDays int    `yaml:"sentiment_days"`
	} `yaml:"data_source"`
	Refresh struct {
		IntervalMS *int    `yaml:"interval_ms"`
		Cron       *string `yaml:"cron"`
		RunOnStart bool    `yaml:"run_on_start"`
	} `yaml:"refresh"`
	Watchlist []string `yaml:"watchlist"`
	Server    struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file and an optional .env file, then applies
// environment variable overrides and defaults. A missing YAML file is not an
// error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATA_SOURCE_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("BACKEND_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("REFRESH_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL_MS: %w", err)
		}
		c.Refresh.IntervalMS = &ms
	}
	if v, ok := os.LookupEnv("REFRESH_CRON"); ok {
		c.Refresh.Cron = &v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Refresh.RunOnStart = b
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.DataSource.Provider = strings.ToLower(strings.TrimSpace(c.DataSource.Provider))
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderFinnhub
	}
	if c.DataSource.NewsDays <= 0 {
		c.DataSource.NewsDays = 14
	}
	if c.DataSource.SentimentDays <= 0 {
		c.DataSource.SentimentDays = 90
	}
	if c.Refresh.IntervalMS == nil {
		ms := 600
		c.Refresh.IntervalMS = &ms
	}
	if c.Refresh.Cron == nil {
		spec := DefaultRefreshCron
		c.Refresh.Cron = &spec
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "logs/watchdesk.log"
	}

	seen := make(map[string]bool, len(c.Watchlist))
	symbols := make([]string, 0, len(c.Watchlist))
	for _, s := range c.Watchlist {
		sym := model.NormalizeSymbol(s)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}
	c.Watchlist = symbols
}

// Interval returns the minimum spacing between upstream calls.
func (c *Config) Interval() time.Duration {
	if c.Refresh.IntervalMS == nil {
		return 600 * time.Millisecond
	}
	return time.Duration(*c.Refresh.IntervalMS) * time.Millisecond
}

// RefreshCron returns the periodic refresh schedule; "" disables it.
func (c *Config) RefreshCron() string {
	if c.Refresh.Cron == nil {
		return DefaultRefreshCron
	}
	return strings.TrimSpace(*c.Refresh.Cron)
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderFinnhub:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for the finnhub provider")
		}
	case ProviderBackend:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the backend provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Refresh.IntervalMS != nil && *c.Refresh.IntervalMS < 0 {
		return fmt.Errorf("refresh.interval_ms must not be negative")
	}
	return nil
}
