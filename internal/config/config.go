// Package config loads runtime settings from defaults, an optional config
// file, a .env file and SHOPFLOOR_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/shopfloor/internal/calendar"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SHOPFLOOR"

type Config struct {
	DBPath    string
	Calendar  CalendarConfig
	Scheduler SchedulerConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Metrics   MetricsConfig
}

// CalendarConfig selects how instants outside every shift are treated.
type CalendarConfig struct {
	Fallback string
	Gap      string
}

type SchedulerConfig struct {
	Workers int
}

type LogConfig struct {
	Level  string
	Format string
}

type HTTPConfig struct {
	Addr string
}

// MetricsConfig enables a push to a Prometheus Pushgateway after each
// committed schedule. Empty PushgatewayURL disables it.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:    defaultDBPath(),
		Calendar:  CalendarConfig{Fallback: "first", Gap: "absorb"},
		Scheduler: SchedulerConfig{Workers: 1},
		Log:       LogConfig{Level: "info", Format: "console"},
		HTTP:      HTTPConfig{Addr: ":8080"},
		Metrics:   MetricsConfig{Job: "shopfloor"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopfloor.db"
	}
	return filepath.Join(home, ".shopfloor", "shopfloor.db")
}

// Load reads configuration. configFile may be empty, in which case
// shopfloor.yaml is looked up in the working directory and ~/.shopfloor.
// A missing file is not an error; a malformed one is.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("shopfloor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".shopfloor"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		DBPath: v.GetString("db_path"),
		Calendar: CalendarConfig{
			Fallback: v.GetString("calendar.fallback"),
			Gap:      v.GetString("calendar.gap"),
		},
		Scheduler: SchedulerConfig{Workers: v.GetInt("scheduler.workers")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		HTTP: HTTPConfig{Addr: v.GetString("http.addr")},
		Metrics: MetricsConfig{
			PushgatewayURL: v.GetString("metrics.pushgateway_url"),
			Job:            v.GetString("metrics.job"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("calendar.fallback", d.Calendar.Fallback)
	v.SetDefault("calendar.gap", d.Calendar.Gap)
	v.SetDefault("scheduler.workers", d.Scheduler.Workers)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("metrics.pushgateway_url", d.Metrics.PushgatewayURL)
	v.SetDefault("metrics.job", d.Metrics.Job)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if _, err := calendar.ParseFallbackPolicy(c.Calendar.Fallback); err != nil {
		return fmt.Errorf("calendar.fallback: %w", err)
	}
	if _, err := calendar.ParseGapPolicy(c.Calendar.Gap); err != nil {
		return fmt.Errorf("calendar.gap: %w", err)
	}
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("scheduler.workers must be at least 1, got %d", c.Scheduler.Workers)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// CalendarOptions turns the calendar policies into calendar options.
func (c Config) CalendarOptions() ([]calendar.Option, error) {
	fallback, err := calendar.ParseFallbackPolicy(c.Calendar.Fallback)
	if err != nil {
		return nil, err
	}
	gap, err := calendar.ParseGapPolicy(c.Calendar.Gap)
	if err != nil {
		return nil, err
	}
	return []calendar.Option{calendar.WithFallback(fallback), calendar.WithGapPolicy(gap)}, nil
}
