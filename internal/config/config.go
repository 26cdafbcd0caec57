package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fx-threshold-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Check    CheckConfig    `mapstructure:"check"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Timezone TimezoneConfig `mapstructure:"timezone"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name         string        `mapstructure:"name"`
	CycleTimeout time.Duration `mapstructure:"cycle_timeout"`
}

// RatesConfig covers the Open Exchange Rates provider.
type RatesConfig struct {
	AppID          string        `mapstructure:"app_id"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// CheckConfig holds the raw, unvalidated threshold inputs. Values stay strings
// so that the validator owns parsing and its error reporting.
type CheckConfig struct {
	TargetCurrency     string `mapstructure:"target_currency"`
	ComparisonCurrency string `mapstructure:"comparison_currency"`
	ThresholdRate      string `mapstructure:"threshold_rate"`
}

// NotifyConfig groups per-channel settings. A channel with incomplete
// settings is skipped, not rejected.
type NotifyConfig struct {
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	SenderName     string         `mapstructure:"sender_name"`
	Mailgun        MailgunConfig  `mapstructure:"mailgun"`
	Gotify         GotifyConfig   `mapstructure:"gotify"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// MailgunConfig describes the email relay.
type MailgunConfig struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
	Region string `mapstructure:"region"`
}

// GotifyConfig describes the push-notification server.
type GotifyConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	Priority int    `mapstructure:"priority"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// TimezoneConfig drives the tz-check command.
type TimezoneConfig struct {
	Name          string `mapstructure:"name"`
	InitialOffset string `mapstructure:"initial_offset"`
}

// envBindings keeps the variable names used by existing deployments.
var envBindings = map[string]string{
	"app.cycle_timeout":         "CYCLE_TIMEOUT",
	"logging.level":             "LOG_LEVEL",
	"logging.format":            "LOG_FORMAT",
	"rates.app_id":              "OER_APP_ID",
	"rates.base_url":            "OER_BASE_URL",
	"check.target_currency":     "TARGET_CURRENCY",
	"check.comparison_currency": "COMPARISON_CURRENCY",
	"check.threshold_rate":      "THRESHOLD_RATE",
	"notify.mailgun.domain":     "MAILGUN_DOMAIN",
	"notify.mailgun.api_key":    "MAILGUN_API_KEY",
	"notify.mailgun.from":       "MAILGUN_FROM",
	"notify.mailgun.to":         "MAILGUN_TO",
	"notify.mailgun.region":     "MAILGUN_REGION",
	"notify.gotify.url":         "GOTIFY_URL",
	"notify.gotify.token":       "GOTIFY_TOKEN",
	"notify.gotify.priority":    "GOTIFY_PRIORITY",
	"notify.telegram.bot_token": "TELEGRAM_BOT_TOKEN",
	"notify.telegram.chat_id":   "TELEGRAM_CHAT_ID",
	"notify.telegram.api_base":  "TELEGRAM_API_BASE",
	"timezone.name":             "TIMEZONE",
	"timezone.initial_offset":   "INITIAL_TZ_OFFSET",
}

// Load builds configuration from an optional dotenv file, an optional config
// file, the environment, and defaults.
func Load(path, envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("FXALERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fxalert")
	v.SetDefault("app.cycle_timeout", "60s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("rates.base_url", "https://openexchangerates.org/api")
	v.SetDefault("rates.request_timeout", "10s")
	v.SetDefault("rates.user_agent", "fxalert/1.0")

	v.SetDefault("notify.request_timeout", "10s")
	v.SetDefault("notify.sender_name", "Exchange Rate Script")
	v.SetDefault("notify.mailgun.region", "eu")
	v.SetDefault("notify.gotify.priority", 5)
	v.SetDefault("notify.telegram.api_base", "https://api.telegram.org")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs structural checks. Threshold and currency inputs are
// validated later by the check pipeline so that their failures surface as
// configuration errors of the cycle itself.
func (c *Config) Validate() error {
	if c.App.CycleTimeout <= 0 {
		return fmt.Errorf("app.cycle_timeout must be greater than zero")
	}
	if c.Rates.RequestTimeout <= 0 {
		return fmt.Errorf("rates.request_timeout must be greater than zero")
	}
	if c.Notify.RequestTimeout <= 0 {
		return fmt.Errorf("notify.request_timeout must be greater than zero")
	}
	switch strings.ToLower(strings.TrimSpace(c.Notify.Mailgun.Region)) {
	case "", "eu", "us":
	default:
		return fmt.Errorf("notify.mailgun.region must be eu or us, got %q", c.Notify.Mailgun.Region)
	}
	return nil
}
