package crawler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// Browser user agents presented by fetch attempts. Rotated per attempt
// so consecutive requests to one site do not share a fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.8",
	"zh-TW,zh;q=0.9,en;q=0.8",
}

// sitePacer tracks pacing state for a single site.
type sitePacer struct {
	mu          sync.Mutex
	lastRequest time.Time
}

// Pacer implements the behavior pacing policy: a randomized delay
// within each site's configured window, enforced as minimum spacing
// between consecutive requests to that site, plus per-attempt request
// shape hints. Pacing is per-site and independent of the global
// concurrency cap; an optional global rate limiter caps overall
// request throughput across all sites.
type Pacer struct {
	mu     sync.Mutex
	sites  map[string]*sitePacer
	global *rate.Limiter

	rngMu  sync.Mutex
	rng    *rand.Rand
	logger arbor.ILogger
}

// NewPacer creates a pacing policy. globalRateLimit is requests/sec
// across all sites (0 = unlimited). seed fixes the randomness source
// for tests; pass 0 for a time-based seed.
func NewPacer(globalRateLimit float64, seed int64, logger arbor.ILogger) *Pacer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var limiter *rate.Limiter
	if globalRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(globalRateLimit), 1)
	}

	return &Pacer{
		sites:  make(map[string]*sitePacer),
		global: limiter,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// NextDelay returns a uniformly random duration within the site's
// configured delay range.
func (p *Pacer) NextDelay(site models.SiteConfig) time.Duration {
	if site.DelayMax <= site.DelayMin {
		return site.DelayMin
	}
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return site.DelayMin + time.Duration(p.rng.Int63n(int64(site.DelayMax-site.DelayMin)))
}

// Wait blocks until the site's pacing window allows another request,
// then stamps the site. The per-site lock is held for the duration of
// the wait, which also serializes attempts against one site while it
// is inside its pacing cooldown.
func (p *Pacer) Wait(ctx context.Context, site models.SiteConfig) error {
	p.mu.Lock()
	sp, exists := p.sites[site.ID]
	if !exists {
		sp = &sitePacer{}
		p.sites[site.ID] = sp
	}
	p.mu.Unlock()

	sp.mu.Lock()
	if !sp.lastRequest.IsZero() {
		delay := p.NextDelay(site)
		nextAllowed := sp.lastRequest.Add(delay)
		if wait := time.Until(nextAllowed); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				sp.mu.Unlock()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	sp.lastRequest = time.Now()
	sp.mu.Unlock()

	if p.global != nil {
		return p.global.Wait(ctx)
	}
	return nil
}

// Plan returns the request shape for one attempt: rotated headers and
// a short randomized pseudo-interaction sequence the adapter plays
// back between its internal steps. Stateless apart from the shared
// randomness source.
func (p *Pacer) Plan(site models.SiteConfig) models.PacingHints {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()

	hints := models.PacingHints{
		UserAgent:      userAgents[p.rng.Intn(len(userAgents))],
		AcceptLanguage: acceptLanguages[p.rng.Intn(len(acceptLanguages))],
	}

	scrolls := 1 + p.rng.Intn(2)
	for i := 0; i < scrolls; i++ {
		hints.Interactions = append(hints.Interactions, models.InteractionStep{
			Action: "scroll",
			Pause:  p.randomPause(),
		})
	}
	hints.Interactions = append(hints.Interactions, models.InteractionStep{
		Action: "top",
		Pause:  p.randomPause(),
	})

	return hints
}

// randomPause returns 500ms-1s. Caller holds rngMu.
func (p *Pacer) randomPause() time.Duration {
	return 500*time.Millisecond + time.Duration(p.rng.Int63n(int64(500*time.Millisecond)))
}
