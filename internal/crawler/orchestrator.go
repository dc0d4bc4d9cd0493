package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// Orchestrator owns a crawl cycle end to end: it expands requests and
// sites into work items, fans them out across a bounded worker pool,
// collects one terminal observation per item, persists the batch and
// raises threshold alerts. Site failures stay inside the cycle as
// observation data; RunCycle itself errors only on invalid input or a
// pre-cancelled context.
type Orchestrator struct {
	config   *common.Config
	adapters map[string]interfaces.SiteAdapter
	retry    *Controller
	pacer    *Pacer
	proxies  *ProxyPool
	store    interfaces.PriceStore
	notifier interfaces.Notifier
	logger   arbor.ILogger
}

// NewOrchestrator wires the engine from validated configuration. The
// store and notifier may be nil; observations are then returned to the
// caller only, and alerts are logged but not delivered.
func NewOrchestrator(cfg *common.Config, adapters map[string]interfaces.SiteAdapter, store interfaces.PriceStore, notifier interfaces.Notifier, logger arbor.ILogger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	proxies := NewProxyPool(cfg.Proxy, logger)
	pacer := NewPacer(cfg.Engine.GlobalRateLimit, 0, logger)
	policy := NewRetryPolicy(cfg.Engine.MaxAttempts, cfg.Engine.Backoff)

	return &Orchestrator{
		config:   cfg,
		adapters: adapters,
		retry:    NewController(policy, proxies, pacer, logger),
		pacer:    pacer,
		proxies:  proxies,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// RunCycle executes one crawl cycle over the cross product of active
// requests and enabled sites. Inactive requests and disabled sites are
// skipped without producing observations. The returned result always
// holds exactly one observation per generated work item.
func (o *Orchestrator) RunCycle(ctx context.Context, requests []*models.SearchRequest, sites []models.SiteConfig) (*CycleResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cycleID := common.NewCycleID()

	var workItems []WorkItem
	for _, req := range requests {
		if !req.Active {
			continue
		}
		for _, site := range sites {
			if !site.Enabled {
				continue
			}
			workItems = append(workItems, WorkItem{Request: req, Site: site})
		}
	}

	o.logger.Info().
		Str("cycle_id", cycleID).
		Int("requests", len(requests)).
		Int("sites", len(sites)).
		Int("work_items", len(workItems)).
		Msg("Starting crawl cycle")

	monitor := NewMonitor(cycleID, o.config.Alerts, o.logger)

	if len(workItems) == 0 {
		metrics, alerts := monitor.Finalize()
		return &CycleResult{CycleID: cycleID, Metrics: metrics, Alerts: alerts}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, o.config.Engine.CycleDeadline)
	defer cancel()

	items := make(chan WorkItem, len(workItems))
	results := make(chan *models.PriceObservation, len(workItems))

	var wg sync.WaitGroup
	concurrency := o.config.Engine.MaxConcurrentRequests
	if concurrency > len(workItems) {
		concurrency = len(workItems)
	}

	for i := 0; i < concurrency; i++ {
		w := &worker{
			id:          i,
			cycleID:     cycleID,
			adapters:    o.adapters,
			retry:       o.retry,
			cancelGrace: o.config.Engine.CancelGrace,
			logger:      o.logger,
		}
		wg.Add(1)
		go w.run(cctx, items, results, &wg)
	}

	for _, item := range workItems {
		items <- item
	}
	close(items)

	wg.Wait()
	close(results)

	observations := make([]*models.PriceObservation, 0, len(workItems))
	for obs := range results {
		monitor.Record(obs)
		observations = append(observations, obs)
	}

	metrics, alerts := monitor.Finalize()

	// Persist under the parent context: a cycle that spent its deadline
	// still gets its observations written.
	if o.store != nil {
		if err := o.store.AppendObservations(ctx, observations); err != nil {
			// Persistence is best-effort per cycle; the caller still
			// gets the full observation set.
			o.logger.Error().Str("cycle_id", cycleID).Err(err).Msg("Failed to persist cycle observations")
		}
	}

	if len(alerts) > 0 {
		for _, a := range alerts {
			o.logger.Warn().
				Str("cycle_id", cycleID).
				Str("threshold", a.Threshold).
				Float64("observed", a.Observed).
				Float64("limit", a.Limit).
				Msg("Cycle alert threshold breached")
		}
		if o.notifier != nil {
			if err := o.notifier.Notify(ctx, cycleID, alerts); err != nil {
				o.logger.Error().Str("cycle_id", cycleID).Err(err).Msg("Alert delivery failed")
			}
		}
	}

	o.logger.Info().
		Str("cycle_id", cycleID).
		Int("successes", metrics.Successes).
		Int("failures", metrics.Failures).
		Msg("Crawl cycle complete")

	return &CycleResult{
		CycleID:      cycleID,
		Observations: observations,
		Metrics:      metrics,
		Alerts:       alerts,
	}, nil
}
