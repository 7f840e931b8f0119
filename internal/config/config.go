package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// WindowLayout is the layout used for window bounds in config files and flags.
const WindowLayout = "2006-01-02 15:04:05"

// Config holds all configuration for the application.
type Config struct {
	Database  Database  `mapstructure:"database"`
	Source    Source    `mapstructure:"source"`
	Detection Detection `mapstructure:"detection"`
	Window    Window    `mapstructure:"window"`
	Report    Report    `mapstructure:"report"`
	Proof     Proof     `mapstructure:"proof"`
	Logger    Logger    `mapstructure:"logger"`
}

// Database holds the configuration for the reporting database.
type Database struct {
	Driver string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	DSN    string `mapstructure:"dsn"`
}

// Source selects where trade, account and customer records come from.
type Source struct {
	Kind string `mapstructure:"kind" validate:"oneof=database api"`
	API  API    `mapstructure:"api"`
}

// API holds the configuration for the back-office reporting API.
type API struct {
	BaseURL        string        `mapstructure:"base_url" validate:"omitempty,url"`
	ApiKey         string        `mapstructure:"api_key"`
	RateLimit      float64       `mapstructure:"rate_limit" validate:"gt=0"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" validate:"gte=1"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"gte=1"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// Detection holds the quick-close rule and its surrounding business rules.
type Detection struct {
	Threshold      time.Duration `mapstructure:"threshold" validate:"gte=0"`
	AccountTypes   []string      `mapstructure:"account_types" validate:"min=1,dive,required"`
	RawLotPrefixes []string      `mapstructure:"raw_lot_prefixes"`
	LotDivisor     float64       `mapstructure:"lot_divisor" validate:"gt=0"`
}

// Window is the inclusive time window trades are fetched for.
type Window struct {
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Timezone string `mapstructure:"timezone"`
}

// Report holds the output settings of the main report.
type Report struct {
	Output       string `mapstructure:"output" validate:"required"`
	TradesSheet  string `mapstructure:"trades_sheet" validate:"required"`
	SummarySheet string `mapstructure:"summary_sheet" validate:"required"`
}

// Proof holds the settings of the per-login presentation report.
type Proof struct {
	Input       string  `mapstructure:"input" validate:"required"`
	InputSheet  string  `mapstructure:"input_sheet" validate:"required"`
	Output      string  `mapstructure:"output" validate:"required"`
	OutputSheet string  `mapstructure:"output_sheet" validate:"required"`
	Logins      []int64 `mapstructure:"logins"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// NewViper returns a viper instance that reads config.yml from path,
// lets environment variables override it and carries every default.
func NewViper(path string) *viper.Viper {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("source.kind", "database")
	v.SetDefault("source.api.base_url", "")
	v.SetDefault("source.api.api_key", "")
	v.SetDefault("source.api.rate_limit", 10)
	v.SetDefault("source.api.rate_limit_burst", 5)
	v.SetDefault("source.api.max_retries", 1)
	v.SetDefault("source.api.timeout", 30*time.Second)
	v.SetDefault("detection.threshold", 30*time.Second)
	v.SetDefault("detection.account_types", []string{"real", "p2", "Stellar 1-Step Demo"})
	v.SetDefault("detection.raw_lot_prefixes", []string{"70", "3"})
	v.SetDefault("detection.lot_divisor", 100)
	v.SetDefault("window.start", "")
	v.SetDefault("window.end", "")
	v.SetDefault("window.timezone", "UTC")
	v.SetDefault("report.output", "filtered_trades_quick_close_summary_with_customer_info.xlsx")
	v.SetDefault("report.trades_sheet", "Filtered Trades")
	v.SetDefault("report.summary_sheet", "Login Summary")
	v.SetDefault("proof.input", "filtered_trades_quick_close_summary_with_customer_info.xlsx")
	v.SetDefault("proof.input_sheet", "Filtered Trades")
	v.SetDefault("proof.output", "filtered_trades_under_30s_for_specific_logins_rearranged.xlsx")
	v.SetDefault("proof.output_sheet", "Trades Under 30s")
	v.SetDefault("proof.logins", []int64{})
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	return v
}

// Load reads the config file (if any) into v and unmarshals the result.
// A missing config file is not an error: defaults and environment apply.
func Load(v *viper.Viper) (config Config, err error) {
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	return Load(NewViper(path))
}

// ValidateRun checks the settings only the main report run needs.
func (c *Config) ValidateRun() error {
	switch c.Source.Kind {
	case "database":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required when source.kind is database")
		}
	case "api":
		if c.Source.API.BaseURL == "" {
			return errors.New("source.api.base_url is required when source.kind is api")
		}
	}

	start, end, err := c.Window.Bounds()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("window end %s is before start %s", c.Window.End, c.Window.Start)
	}
	return nil
}

// ValidateProof checks the settings only the proof report needs.
func (c *Config) ValidateProof() error {
	if len(c.Proof.Logins) == 0 {
		return errors.New("proof.logins must list at least one login")
	}
	return nil
}

// Bounds parses the window start and end in the configured timezone.
func (w Window) Bounds() (start, end time.Time, err error) {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return start, end, fmt.Errorf("invalid window.timezone %q: %w", w.Timezone, err)
	}
	if start, err = time.ParseInLocation(WindowLayout, w.Start, loc); err != nil {
		return start, end, fmt.Errorf("invalid window.start %q: %w", w.Start, err)
	}
	if end, err = time.ParseInLocation(WindowLayout, w.End, loc); err != nil {
		return start, end, fmt.Errorf("invalid window.end %q: %w", w.End, err)
	}
	return start, end, nil
}
