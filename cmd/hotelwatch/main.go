package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/adapters"
	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/crawler"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/notify"
	"github.com/ternarybob/hotelwatch/internal/scheduler"
	"github.com/ternarybob/hotelwatch/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	runOnce      = flag.Bool("once", false, "Run a single crawl cycle and exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Hotelwatch version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Validate
	// 3. Initialize logger
	// 4. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("hotelwatch.toml"); err == nil {
			configFiles = append(configFiles, "hotelwatch.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Str("environment", config.Environment).
		Int("max_concurrent_requests", config.Engine.MaxConcurrentRequests).
		Int("max_attempts", config.Engine.MaxAttempts).
		Dur("cycle_deadline", config.Engine.CycleDeadline).
		Str("schedule", config.Scheduler.Schedule).
		Msg("Configuration loaded")

	// Target sites: file if configured, built-in defaults otherwise.
	sites, err := common.LoadSites(config.SitesFile)
	if err != nil {
		logger.Warn().Err(err).Str("path", config.SitesFile).Msg("Falling back to built-in target sites")
		sites = common.DefaultSites()
	}

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
		os.Exit(1)
	}
	defer db.Close()

	priceStore := badger.NewPriceStore(db, logger)
	requestStore := badger.NewRequestStore(db, logger)

	var notifier interfaces.Notifier
	if config.Notifier.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(config.Notifier.WebhookURL, config.Notifier.Timeout, logger)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	registry := adapters.NewAdapters(sites, logger)
	if len(registry) == 0 {
		logger.Fatal().Msg("No site adapters available for the configured target sites")
		os.Exit(1)
	}

	orchestrator, err := crawler.NewOrchestrator(config, registry, priceStore, notifier, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize crawl engine")
		os.Exit(1)
	}

	sched := scheduler.NewScheduler(orchestrator, requestStore, sites, logger)

	if *runOnce {
		logger.Info().Msg("Running single crawl cycle")
		sched.RunOnce(context.Background())
		return
	}

	if !config.Scheduler.Enabled {
		logger.Warn().Msg("Scheduler disabled in configuration, nothing to do")
		return
	}

	if err := sched.Start(config.Scheduler.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	sched.Stop()
	logger.Info().Msg("Hotelwatch stopped")
}
