package crawler

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// RetryPolicy defines retry behavior with exponential backoff.
type RetryPolicy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// NewRetryPolicy creates a retry policy from engine configuration.
func NewRetryPolicy(maxAttempts int, backoff common.BackoffConfig) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		MinWait:     backoff.MinWait,
		MaxWait:     backoff.MaxWait,
		Multiplier:  backoff.Multiplier,
	}
}

// BackoffFor returns the wait before attempt n (n >= 2): the backoff
// base grows by Multiplier per attempt, a small random jitter is
// added, and the result is clamped to [MinWait, MaxWait].
func (p *RetryPolicy) BackoffFor(attempt int) time.Duration {
	base := float64(p.MinWait) * math.Pow(p.Multiplier, float64(attempt-2))
	if base > float64(p.MaxWait) {
		base = float64(p.MaxWait)
	}

	// Jitter up to +10% so concurrent retries against one site do not
	// realign into uniform intervals.
	wait := time.Duration(base * (1 + 0.1*rand.Float64()))

	if wait < p.MinWait {
		wait = p.MinWait
	}
	if wait > p.MaxWait {
		wait = p.MaxWait
	}
	return wait
}

// Controller executes one work item's attempt sequence against a site
// adapter: pacing wait, proxy acquisition, the fetch itself, and
// classification-driven backoff. Every attempt outcome is reported to
// the proxy pool - a Blocked result is itself evidence the proxy is
// burned, so reporting is not limited to transport failures.
type Controller struct {
	policy  *RetryPolicy
	proxies *ProxyPool
	pacer   *Pacer
	logger  arbor.ILogger
}

// NewController creates a retry controller.
func NewController(policy *RetryPolicy, proxies *ProxyPool, pacer *Pacer, logger arbor.ILogger) *Controller {
	return &Controller{
		policy:  policy,
		proxies: proxies,
		pacer:   pacer,
		logger:  logger,
	}
}

// Execute runs the adapter for one work item until a terminal outcome:
// a successful result, a fatal classification, an exhausted retry
// budget, or context cancellation. It returns the result (nil on
// failure), the number of attempts consumed, the terminal error class
// and the last error.
func (c *Controller) Execute(ctx context.Context, adapter interfaces.SiteAdapter, site models.SiteConfig, req *models.SearchRequest) (*models.RawSiteResult, int, models.ErrorClass, error) {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.policy.BackoffFor(attempt)
			c.logger.Debug().
				Str("site_id", site.ID).
				Str("request_id", req.ID).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying after backoff")

			select {
			case <-ctx.Done():
				return nil, attempt - 1, models.ClassCycleTimeout, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.pacer.Wait(ctx, site); err != nil {
			return nil, attempt - 1, models.ClassCycleTimeout, err
		}

		proxy := c.proxies.Acquire()

		attemptCtx := ctx
		var cancel context.CancelFunc
		if site.RequestTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, site.RequestTimeout)
		}

		result, err := adapter.Fetch(attemptCtx, req, proxy, c.pacer.Plan(site))
		if cancel != nil {
			cancel()
		}

		c.proxies.Report(proxy, err == nil)

		if err == nil {
			return result, attempt, models.ClassNone, nil
		}
		lastErr = err

		// The cycle deadline, not the attempt, expired: stop retrying.
		if ctx.Err() != nil {
			return nil, attempt, models.ClassCycleTimeout, ctx.Err()
		}

		class := Classify(err)
		if !class.Retryable() {
			c.logger.Debug().
				Str("site_id", site.ID).
				Str("request_id", req.ID).
				Int("attempt", attempt).
				Str("class", string(class)).
				Err(err).
				Msg("Non-retryable error, failing immediately")
			return nil, attempt, class, err
		}

		c.logger.Debug().
			Str("site_id", site.ID).
			Str("request_id", req.ID).
			Int("attempt", attempt).
			Str("class", string(class)).
			Err(err).
			Msg("Attempt failed with retryable error")
	}

	c.logger.Warn().
		Str("site_id", site.ID).
		Str("request_id", req.ID).
		Int("max_attempts", c.policy.MaxAttempts).
		Err(lastErr).
		Msg("All retry attempts exhausted")

	return nil, c.policy.MaxAttempts, models.ClassRetriesExhausted, lastErr
}
