package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/crawler"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// CycleRunner runs one complete crawl cycle. Satisfied by the crawl
// orchestrator; narrowed to an interface so the scheduler can be
// tested without the engine.
type CycleRunner interface {
	RunCycle(ctx context.Context, requests []*models.SearchRequest, sites []models.SiteConfig) (*crawler.CycleResult, error)
}

// Scheduler triggers crawl cycles on a cron schedule. A tick that
// arrives while the previous cycle is still running is skipped, never
// queued.
type Scheduler struct {
	runner   CycleRunner
	requests interfaces.RequestStore
	sites    []models.SiteConfig
	cron     *cron.Cron
	logger   arbor.ILogger

	mu        sync.Mutex
	isRunning bool
	started   bool
}

// NewScheduler creates a cycle scheduler.
func NewScheduler(runner CycleRunner, requests interfaces.RequestStore, sites []models.SiteConfig, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		requests: requests,
		sites:    sites,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start begins triggering cycles on the given schedule. Accepts cron
// expressions and @every syntax; empty falls back to every two hours.
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already running")
	}

	if schedule == "" {
		schedule = "@every 2h"
	}

	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return fmt.Errorf("failed to add cron schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.started = true

	s.logger.Info().Str("schedule", schedule).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for an in-flight cycle trigger to
// return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info().Msg("Scheduler stopped")
}

// tick runs one scheduled cycle. Overlap is prevented here; the cycle
// deadline inside the engine bounds how long a cycle can hold the slot.
func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous cycle still running, skipping scheduled tick")
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	s.RunOnce(context.Background())
}

// RunOnce loads the active requests and runs a single crawl cycle.
// Used by the scheduler tick and by one-shot command invocations.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	requests, err := s.requests.ActiveRequests(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load active search requests")
		return
	}
	if len(requests) == 0 {
		s.logger.Info().Msg("No active search requests, skipping cycle")
		return
	}

	result, err := s.runner.RunCycle(ctx, requests, s.sites)
	if err != nil {
		s.logger.Error().Err(err).Msg("Crawl cycle failed to start")
		return
	}

	for _, req := range requests {
		if err := s.requests.MarkCrawled(ctx, req.ID); err != nil {
			s.logger.Warn().Err(err).Str("request_id", req.ID).Msg("Failed to stamp request crawl time")
		}
	}

	s.logger.Info().
		Str("cycle_id", result.CycleID).
		Int("observations", len(result.Observations)).
		Int("alerts", len(result.Alerts)).
		Dur("duration", time.Since(start)).
		Msg("Scheduled cycle finished")
}
