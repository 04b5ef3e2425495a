package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, []string{"dashboard.bookings", "dashboard.occupancy"}, cfg.Refresh.Charts)
	assert.Equal(t, 2, cfg.Export.CompressionLevel)
	assert.Zero(t, cfg.Generator.Seed)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("GENERATOR_SEED", "77")
	t.Setenv("GENERATOR_LATENCY_MS", "400")
	t.Setenv("SINK_URL", "http://sink.local/reports")
	t.Setenv("SINK_SECRET", "s3cr3t")

	cfg := FromEnv()
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint64(77), cfg.Generator.Seed)
	assert.Equal(t, 400*time.Millisecond, cfg.Generator.Latency)
	assert.Equal(t, "http://sink.local/reports", cfg.Export.SinkURL)
	assert.Equal(t, "s3cr3t", cfg.Export.SinkSecret)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
port: "7070"
log_level: warn
generator:
  seed: 5
  latency: 250ms
refresh:
  interval: 1m
  charts: ["dashboard.bookings"]
export:
  sink_url: http://from-file/
  compression_level: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SINK_SECRET=from-dotenv\n"), 0o644))
	t.Setenv("PORT", "7171")
	t.Cleanup(func() { os.Unsetenv("SINK_SECRET") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7171", cfg.Port, "env wins over file")
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, uint64(5), cfg.Generator.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Generator.Latency)
	assert.Equal(t, time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, []string{"dashboard.bookings"}, cfg.Refresh.Charts)
	assert.Equal(t, "http://from-file/", cfg.Export.SinkURL)
	assert.Equal(t, 4, cfg.Export.CompressionLevel)
	assert.Equal(t, "from-dotenv", cfg.Export.SinkSecret)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout, "unset keys keep defaults")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("export:\n  compression_level: 9\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "compression level")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Port = "eighty"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevelName = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Refresh.Interval = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestAllowedCharts(t *testing.T) {
	cfg := Default()
	cfg.Charts = []string{"reports.revenue", "dashboard.bookings"}
	cfg.Refresh.Charts = []string{"dashboard.bookings", "dashboard.occupancy"}
	assert.Equal(t, []string{"reports.revenue", "dashboard.bookings", "dashboard.occupancy"}, cfg.AllowedCharts())

	assert.Contains(t, Default().AllowedCharts(), "reports.room_types")
}
