package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// worker is one concurrency slot of the pool. It drains work items
// from a shared channel and emits exactly one terminal observation per
// item, including items abandoned at the cycle deadline.
type worker struct {
	id          int
	cycleID     string
	adapters    map[string]interfaces.SiteAdapter
	retry       *Controller
	cancelGrace time.Duration
	logger      arbor.ILogger
}

// run drains the work channel until it closes or the cycle context
// expires. Channel order is FIFO, so items are picked up in submission
// order even though completion order varies.
func (w *worker) run(ctx context.Context, items <-chan WorkItem, results chan<- *models.PriceObservation, wg *sync.WaitGroup) {
	defer wg.Done()

	for item := range items {
		select {
		case <-ctx.Done():
			// Deadline already passed; the item never started.
			results <- w.terminalFailure(item, 0, 0, models.ClassCycleTimeout, ctx.Err())
			continue
		default:
		}

		results <- w.execute(ctx, item)
	}
}

// execute runs one work item to a terminal observation. The attempt
// sequence runs in its own goroutine so the cycle deadline plus a
// short grace can force-mark an item whose in-flight request will not
// come back in time; the late result is dropped.
func (w *worker) execute(ctx context.Context, item WorkItem) *models.PriceObservation {
	start := time.Now()

	type outcome struct {
		result   *models.RawSiteResult
		attempts int
		class    models.ErrorClass
		err      error
	}

	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error().
					Str("site_id", item.Site.ID).
					Str("request_id", item.Request.ID).
					Msgf("Adapter panicked: %v", r)
				done <- outcome{attempts: 1, class: models.ClassAdapterFault, err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()

		adapter, ok := w.adapters[item.Site.ID]
		if !ok {
			done <- outcome{class: models.ClassAdapterFault, err: fmt.Errorf("no adapter registered for site %s", item.Site.ID)}
			return
		}

		result, attempts, class, err := w.retry.Execute(ctx, adapter, item.Site, item.Request)
		done <- outcome{result: result, attempts: attempts, class: class, err: err}
	}()

	select {
	case out := <-done:
		return w.observe(item, start, out.result, out.attempts, out.class, out.err)
	case <-ctx.Done():
	}

	// Deadline hit mid-flight. Give the attempt a short grace to
	// unwind through its own context, then force-mark the item.
	grace := time.NewTimer(w.cancelGrace)
	defer grace.Stop()

	select {
	case out := <-done:
		return w.observe(item, start, out.result, out.attempts, out.class, out.err)
	case <-grace.C:
		w.logger.Warn().
			Int("worker", w.id).
			Str("site_id", item.Site.ID).
			Str("request_id", item.Request.ID).
			Dur("grace", w.cancelGrace).
			Msg("Work item did not unwind within grace, force-marking")
		return w.terminalFailure(item, time.Since(start), 1, models.ClassCycleTimeout, ctx.Err())
	}
}

// observe converts an attempt outcome into the item's terminal
// observation. Success requires at least one quote; an empty result
// set is a no_results failure even when the fetch itself succeeded.
func (w *worker) observe(item WorkItem, start time.Time, result *models.RawSiteResult, attempts int, class models.ErrorClass, err error) *models.PriceObservation {
	obs := &models.PriceObservation{
		ID:        common.NewObservationID(),
		RequestID: item.Request.ID,
		SiteID:    item.Site.ID,
		CycleID:   w.cycleID,
		ScrapedAt: time.Now(),
		Duration:  time.Since(start),
		Attempts:  attempts,
	}

	if err == nil {
		if lowest := result.Lowest(); lowest != nil {
			obs.Success = true
			obs.HotelName = lowest.HotelName
			obs.Price = lowest.Price
			obs.Currency = lowest.Currency
			obs.DetailsURL = lowest.DetailsURL
			obs.QuoteCount = len(result.Quotes)
			return obs
		}
		obs.Class = models.ClassNoResults
		obs.Error = "site returned no matching hotels"
		return obs
	}

	obs.Class = class
	obs.Error = err.Error()
	return obs
}

// terminalFailure builds a failed observation without an attempt
// outcome to draw from.
func (w *worker) terminalFailure(item WorkItem, duration time.Duration, attempts int, class models.ErrorClass, err error) *models.PriceObservation {
	obs := &models.PriceObservation{
		ID:        common.NewObservationID(),
		RequestID: item.Request.ID,
		SiteID:    item.Site.ID,
		CycleID:   w.cycleID,
		ScrapedAt: time.Now(),
		Duration:  duration,
		Attempts:  attempts,
		Class:     class,
	}
	if err != nil {
		obs.Error = err.Error()
	}
	return obs
}
