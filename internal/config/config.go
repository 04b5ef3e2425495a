package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	LogLevelName    string        `yaml:"log_level"`
	LogLevel        slog.Level    `yaml:"-"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Charts lists the chart ids clients may select; refresh charts are
	// always allowed.
	Charts []string `yaml:"charts"`

	Generator GeneratorConfig `yaml:"generator"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Export    ExportConfig    `yaml:"export"`
}

type GeneratorConfig struct {
	Seed    uint64        `yaml:"seed"`    // 0 picks a random seed
	Latency time.Duration `yaml:"latency"` // artificial delay per series
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"` // 0 disables live refresh
	Charts   []string      `yaml:"charts"`
}

type ExportConfig struct {
	SinkURL          string        `yaml:"sink_url"`
	SinkSecret       string        `yaml:"-"`
	CompressionLevel int           `yaml:"compression_level"` // 0 sends plain JSON, 1-4 zstd
	Retries          int           `yaml:"retries"`
	BackoffBase      time.Duration `yaml:"backoff_base"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		Environment:     "development",
		LogLevelName:    "info",
		LogLevel:        slog.LevelInfo,
		HTTPTimeout:     15 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Charts: []string{
			"dashboard.bookings", "dashboard.occupancy", "dashboard.channels", "dashboard.room_status",
			"reports.bookings", "reports.revenue", "reports.occupancy", "reports.room_types", "reports.channels",
		},
		Refresh: RefreshConfig{
			Interval: 30 * time.Second,
			Charts:   []string{"dashboard.bookings", "dashboard.occupancy"},
		},
		Export: ExportConfig{
			CompressionLevel: 2,
			Retries:          2,
			BackoffBase:      100 * time.Millisecond,
		},
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// Load reads an optional YAML file, then a .env file beside it (or in the
// working directory), then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	envPath := ".env"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("loading .env file: %w", err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// AllowedCharts merges Charts and the refresh charts without duplicates.
func (c Config) AllowedCharts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{c.Charts, c.Refresh.Charts} {
		for _, ch := range list {
			if !seen[ch] {
				seen[ch] = true
				out = append(out, ch)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port must be numeric: %q", c.Port)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.Generator.Latency < 0 {
		return fmt.Errorf("generator latency cannot be negative")
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("refresh interval cannot be negative")
	}
	if c.Export.CompressionLevel < 0 || c.Export.CompressionLevel > 4 {
		return fmt.Errorf("compression level must be between 0 and 4")
	}
	if c.Export.Retries < 0 {
		return fmt.Errorf("export retries cannot be negative")
	}
	lvl, err := parseLevel(c.LogLevelName)
	if err != nil {
		return err
	}
	c.LogLevel = lvl
	return nil
}

func applyEnv(c *Config) {
	c.Port = envOr("PORT", c.Port)
	c.Environment = envOr("ENVIRONMENT", c.Environment)
	c.LogLevelName = envOr("LOG_LEVEL", c.LogLevelName)
	if lvl, err := parseLevel(c.LogLevelName); err == nil {
		c.LogLevel = lvl
	}
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			c.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("GENERATOR_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Generator.Seed = n
		}
	}
	if v := os.Getenv("GENERATOR_LATENCY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Generator.Latency = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("REFRESH_INTERVAL_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			c.Refresh.Interval = d
		}
	}
	c.Export.SinkURL = envOr("SINK_URL", c.Export.SinkURL)
	c.Export.SinkSecret = envOr("SINK_SECRET", c.Export.SinkSecret)
	if v := os.Getenv("EXPORT_COMPRESSION_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Export.CompressionLevel = n
		}
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
