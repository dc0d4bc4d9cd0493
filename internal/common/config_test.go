package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Engine.MaxConcurrentRequests)
	assert.Equal(t, 3, cfg.Engine.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Engine.CycleDeadline)
	assert.Equal(t, 2*time.Second, cfg.Engine.Backoff.MinWait)
	assert.Equal(t, 10*time.Second, cfg.Engine.Backoff.MaxWait)
	assert.Equal(t, 0.25, cfg.Alerts.ErrorRate)
	assert.Equal(t, "@every 2h", cfg.Scheduler.Schedule)
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Engine.MaxConcurrentRequests = 0 }},
		{"zero attempts", func(c *Config) { c.Engine.MaxAttempts = 0 }},
		{"sub-second deadline", func(c *Config) { c.Engine.CycleDeadline = 500 * time.Millisecond }},
		{"multiplier below one", func(c *Config) { c.Engine.Backoff.Multiplier = 0.5 }},
		{"zero min wait", func(c *Config) { c.Engine.Backoff.MinWait = 0 }},
		{"max wait below min wait", func(c *Config) { c.Engine.Backoff.MaxWait = time.Second }},
		{"error rate above one", func(c *Config) { c.Alerts.ErrorRate = 1.5 }},
		{"negative error rate", func(c *Config) { c.Alerts.ErrorRate = -0.1 }},
		{"zero response time", func(c *Config) { c.Alerts.ResponseTime = 0 }},
		{"zero proxy threshold", func(c *Config) { c.Proxy.FailureThreshold = 0 }},
		{"bad proxy protocol", func(c *Config) {
			c.Proxy.Proxies = []ProxyEntry{{Address: "10.0.0.1:8080", Protocol: "ftp"}}
		}},
		{"proxy address without port", func(c *Config) {
			c.Proxy.Proxies = []ProxyEntry{{Address: "10.0.0.1", Protocol: "http"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRejectsEnabledEmptyProxyPool(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Proxy.Enabled = true
	cfg.Proxy.Proxies = nil
	assert.Error(t, cfg.Validate())

	cfg.Proxy.Proxies = []ProxyEntry{{Address: "10.0.0.1:8080", Protocol: "http"}}
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFilesAppliesOverrides(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
environment = "production"

[engine]
max_concurrent_requests = 5
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[engine]
max_attempts = 4

[alert_thresholds]
error_rate = 0.5
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5, cfg.Engine.MaxConcurrentRequests)
	assert.Equal(t, 4, cfg.Engine.MaxAttempts)
	assert.Equal(t, 0.5, cfg.Alerts.ErrorRate)

	// Untouched values keep their defaults.
	assert.Equal(t, 10*time.Minute, cfg.Engine.CycleDeadline)
}

func TestLoadFromFilesMissingFileFails(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestEnvOverridesBeatFiles(t *testing.T) {
	t.Setenv("HOTELWATCH_MAX_CONCURRENT_REQUESTS", "7")
	t.Setenv("HOTELWATCH_SCHEDULE", "@every 30m")
	t.Setenv("HOTELWATCH_LOG_LEVEL", "debug")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Engine.MaxConcurrentRequests)
	assert.Equal(t, "@every 30m", cfg.Scheduler.Schedule)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
