package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/youssefsiam38/admindash/maintenance"
	"github.com/youssefsiam38/admindash/ui"
)

// Driver names accepted by database.driver.
const (
	driverPgx = "pgx"
	driverSQL = "sql"
)

// Config holds the binary configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Activity ActivityConfig `mapstructure:"activity"`
}

// DatabaseConfig selects the storage backend. An empty URL keeps all data in memory.
type DatabaseConfig struct {
	URL    string `mapstructure:"url"`
	Driver string `mapstructure:"driver"`
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UIConfig holds dashboard settings.
type UIConfig struct {
	BasePath        string        `mapstructure:"base_path"`
	PageSize        int           `mapstructure:"page_size"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ReadOnly        bool          `mapstructure:"read_only"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the metric snapshot schedule.
type MetricsConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// ActivityConfig holds activity log retention.
type ActivityConfig struct {
	Retention time.Duration `mapstructure:"retention"`
}

// Load reads configuration from file and env. Env var overrides use prefix ADMINDASH_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", driverPgx)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("ui.base_path", "/ui")
	v.SetDefault("ui.page_size", ui.DefaultPageSize)
	v.SetDefault("ui.refresh_interval", ui.DefaultRefreshInterval)
	v.SetDefault("ui.read_only", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.schedule", maintenance.DefaultSnapshotSchedule)
	v.SetDefault("activity.retention", maintenance.DefaultActivityRetention)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ADMINDASH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "admindash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ADMINDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// the file is optional unless named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case driverPgx, driverSQL:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", driverPgx, driverSQL, c.Database.Driver)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.UI.PageSize < 1 || c.UI.PageSize > ui.MaxPageSize {
		return fmt.Errorf("ui.page_size must be between 1 and %d", ui.MaxPageSize)
	}
	c.UI.BasePath = strings.TrimRight(c.UI.BasePath, "/")
	if c.UI.BasePath != "" && !strings.HasPrefix(c.UI.BasePath, "/") {
		return fmt.Errorf("ui.base_path must start with /, got %q", c.UI.BasePath)
	}
	if c.UI.BasePath == "/api" {
		return errors.New("ui.base_path must not be /api")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// newLogger builds the process logger. Output goes to stderr so that
// report and export can write to stdout.
func newLogger(c LogConfig) *slog.Logger {
	level, _ := parseLevel(c.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
