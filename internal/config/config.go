package config

import (
	"flag"
	"os"
	"strings"

	"codeberg.org/mutker/thermowatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	defaultListenAddr   = ":8080"
	defaultBatchSize    = 32
	defaultBatchTimeout = 10
)

// Config is the process-wide service configuration. It is loaded once at
// startup and immutable afterwards.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`

	// Classifier parameters
	ReferenceTemp     float64 `mapstructure:"reference_temp"`
	WarningThreshold  float64 `mapstructure:"warning_threshold"`
	CriticalThreshold float64 `mapstructure:"critical_threshold"`
	MinValidTemp      float64 `mapstructure:"min_valid_temp"`
	MaxValidTemp      float64 `mapstructure:"max_valid_temp"`
	MaxSensors        int     `mapstructure:"max_sensors"`

	// Prediction history (sqlite)
	HistoryEnabled      bool   `mapstructure:"history"`
	HistoryDB           string `mapstructure:"history_db"`
	HistoryBatchSize    int    `mapstructure:"history_batch_size"`
	HistoryBatchTimeout int    `mapstructure:"history_batch_timeout"`

	// Recent-results cache (redis)
	CacheEnabled  bool   `mapstructure:"cache"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Critical-alert publishing (kafka)
	AlertsEnabled bool     `mapstructure:"alerts"`
	AlertBrokers  []string `mapstructure:"alert_brokers"`
	AlertTopic    string   `mapstructure:"alert_topic"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from defaults, an optional TOML file
// (THERMOWATCH_CONFIG or thermowatch.toml in /etc and the working
// directory), and command line flags, in increasing precedence.
// args are the raw command line arguments without the program name.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()

	fs := flag.NewFlagSet("thermowatch", flag.ContinueOnError)
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.String("listen-addr", defaultListenAddr, "HTTP listen address")
	fs.Float64("reference-temp", 25.0, "Reference temperature in degrees Celsius")
	fs.Float64("warning-threshold", 1.5, "Deviation above which readings are classified as warning")
	fs.Float64("critical-threshold", 2.5, "Deviation above which readings are classified as critical")
	fs.Bool("history", false, "Enable prediction history")
	fs.String("history-db", "", "Path to the prediction history database")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("THERMOWATCH_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("thermowatch")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Command line flags win over file values
	fs.Visit(func(f *flag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", defaultListenAddr)
	v.SetDefault("reference_temp", 25.0)
	v.SetDefault("warning_threshold", 1.5)
	v.SetDefault("critical_threshold", 2.5)
	v.SetDefault("min_valid_temp", 0.0)
	v.SetDefault("max_valid_temp", 60.0)
	v.SetDefault("max_sensors", 16)
	v.SetDefault("history", false)
	v.SetDefault("history_db", "/var/lib/thermowatch/history.db")
	v.SetDefault("history_batch_size", defaultBatchSize)
	v.SetDefault("history_batch_timeout", defaultBatchTimeout)
	v.SetDefault("cache", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("alerts", false)
	v.SetDefault("alert_brokers", []string{"localhost:9092"})
	v.SetDefault("alert_topic", "thermowatch.alerts")
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.ListenAddr == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "listen_addr must not be empty")
	}

	if c.WarningThreshold < 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "warning_threshold must not be negative")
	}

	if c.CriticalThreshold <= c.WarningThreshold {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Warning  float64
			Critical float64
		}{
			Warning:  c.WarningThreshold,
			Critical: c.CriticalThreshold,
		})
	}

	if c.MaxValidTemp <= c.MinValidTemp {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "max_valid_temp must be greater than min_valid_temp")
	}

	if c.MaxSensors <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "max_sensors must be positive")
	}

	if c.HistoryEnabled && c.HistoryDB == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "history_db required when history is enabled")
	}

	if c.AlertsEnabled && (len(c.AlertBrokers) == 0 || c.AlertTopic == "") {
		return errFactory.WithMessage(errors.ErrMissingConfig, "alert_brokers and alert_topic required when alerts are enabled")
	}

	return nil
}
