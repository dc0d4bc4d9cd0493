package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Engine      EngineConfig    `toml:"engine"`
	Proxy       ProxyConfig     `toml:"proxy"`
	Alerts      AlertThresholds `toml:"alert_thresholds"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Notifier    NotifierConfig  `toml:"notifier"`
	SitesFile   string          `toml:"sites_file"` // YAML file with target site definitions
}

// EngineConfig controls the crawl orchestration engine. Out-of-range
// values are rejected by Validate before any cycle starts.
type EngineConfig struct {
	MaxConcurrentRequests int           `toml:"max_concurrent_requests" validate:"min=1"`
	MaxAttempts           int           `toml:"max_attempts" validate:"min=1"`
	CycleDeadline         time.Duration `toml:"cycle_deadline" validate:"min=1000000000"` // >= 1s
	CancelGrace           time.Duration `toml:"cancel_grace" validate:"min=0"`            // wait after deadline before force-marking an item
	GlobalRateLimit       float64       `toml:"global_rate_limit" validate:"min=0"`       // requests/sec across all sites, 0 = unlimited
	Backoff               BackoffConfig `toml:"backoff"`
}

// BackoffConfig controls retry waits between attempts.
type BackoffConfig struct {
	Multiplier float64       `toml:"multiplier" validate:"gte=1"`
	MinWait    time.Duration `toml:"min_wait" validate:"gt=0"`
	MaxWait    time.Duration `toml:"max_wait" validate:"gtefield=MinWait"`
}

// ProxyConfig controls the egress proxy pool.
type ProxyConfig struct {
	Enabled          bool          `toml:"enabled"`
	Rotation         bool          `toml:"rotation"` // round-robin when true, sticky-until-failure when false
	FailureThreshold int           `toml:"failure_threshold" validate:"min=1"`
	Cooldown         time.Duration `toml:"cooldown" validate:"gt=0"`
	Proxies          []ProxyEntry  `toml:"proxies" validate:"dive"`
}

// ProxyEntry declares one egress proxy endpoint.
type ProxyEntry struct {
	Address  string `toml:"address" validate:"required,hostname_port"`
	Protocol string `toml:"protocol" validate:"oneof=http socks5"`
}

// AlertThresholds are evaluated once per completed cycle with a strict
// greater-than comparison.
type AlertThresholds struct {
	ErrorRate    float64       `toml:"error_rate" validate:"gte=0,lte=1"`
	ResponseTime time.Duration `toml:"response_time" validate:"gt=0"`
}

// SchedulerConfig controls the cron trigger for crawl cycles.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron expression or @every syntax
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// NotifierConfig selects the alert delivery transport.
type NotifierConfig struct {
	WebhookURL string        `toml:"webhook_url"` // empty = log-only notifier
	Timeout    time.Duration `toml:"timeout"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability;
// only user-facing settings should be exposed in hotelwatch.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Engine: EngineConfig{
			MaxConcurrentRequests: 3,
			MaxAttempts:           3,
			CycleDeadline:         10 * time.Minute,
			CancelGrace:           5 * time.Second,
			GlobalRateLimit:       0, // unlimited unless the operator sets a ceiling
			Backoff: BackoffConfig{
				Multiplier: 2.0,
				MinWait:    2 * time.Second,
				MaxWait:    10 * time.Second,
			},
		},
		Proxy: ProxyConfig{
			Enabled:          false,
			Rotation:         true,
			FailureThreshold: 5,
			Cooldown:         10 * time.Minute,
		},
		Alerts: AlertThresholds{
			ErrorRate:    0.25,
			ResponseTime: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Schedule: "@every 2h",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Notifier: NotifierConfig{
			Timeout: 10 * time.Second,
		},
		SitesFile: "sites.yaml",
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files
// override earlier files; environment variables override everything.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("HOTELWATCH_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("HOTELWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if badgerPath := os.Getenv("HOTELWATCH_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if sitesFile := os.Getenv("HOTELWATCH_SITES_FILE"); sitesFile != "" {
		config.SitesFile = sitesFile
	}
	if concurrency := os.Getenv("HOTELWATCH_MAX_CONCURRENT_REQUESTS"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.Engine.MaxConcurrentRequests = c
		}
	}
	if attempts := os.Getenv("HOTELWATCH_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			config.Engine.MaxAttempts = a
		}
	}
	if deadline := os.Getenv("HOTELWATCH_CYCLE_DEADLINE"); deadline != "" {
		if d, err := time.ParseDuration(deadline); err == nil {
			config.Engine.CycleDeadline = d
		}
	}
	if schedule := os.Getenv("HOTELWATCH_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if webhook := os.Getenv("HOTELWATCH_WEBHOOK_URL"); webhook != "" {
		config.Notifier.WebhookURL = webhook
	}
}

// Validate checks all configured ranges. It must pass before the
// engine runs a cycle - invalid values are rejected here, not worked
// around downstream.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Proxy.Enabled && len(c.Proxy.Proxies) == 0 {
		return fmt.Errorf("invalid configuration: proxy pool enabled but no proxies declared")
	}

	return nil
}
