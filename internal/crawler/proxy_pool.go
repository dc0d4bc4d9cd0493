package crawler

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// proxyEntry is the pool-internal health record for one egress proxy.
// Entries never leave the pool; callers receive immutable lease values.
type proxyEntry struct {
	proxy         models.Proxy
	failures      int
	cooldownUntil time.Time
}

// ProxyPool hands out egress proxies and tracks their health. It is
// shared mutable state across all worker slots, so every transition
// happens under a single mutex.
type ProxyPool struct {
	mu               sync.Mutex
	entries          []*proxyEntry
	next             int // round-robin cursor
	sticky           int // index reused while rotation is off, -1 when unset
	enabled          bool
	rotation         bool
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time
	logger           arbor.ILogger
}

// NewProxyPool creates a proxy pool from configuration.
func NewProxyPool(cfg common.ProxyConfig, logger arbor.ILogger) *ProxyPool {
	entries := make([]*proxyEntry, 0, len(cfg.Proxies))
	for _, p := range cfg.Proxies {
		protocol := models.ProxyProtocol(p.Protocol)
		if protocol == "" {
			protocol = models.ProxyHTTP
		}
		entries = append(entries, &proxyEntry{
			proxy: models.Proxy{Address: p.Address, Protocol: protocol},
		})
	}

	return &ProxyPool{
		entries:          entries,
		sticky:           -1,
		enabled:          cfg.Enabled,
		rotation:         cfg.Rotation,
		failureThreshold: cfg.FailureThreshold,
		cooldown:         cfg.Cooldown,
		now:              time.Now,
		logger:           logger,
	}
}

// Acquire returns a lease on the next eligible proxy, or nil when the
// pool is disabled or fully cooling down. A nil lease means the caller
// proceeds with direct, non-proxied egress.
func (p *ProxyPool) Acquire() *models.Proxy {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || len(p.entries) == 0 {
		return nil
	}

	now := p.now()

	if !p.rotation {
		if p.sticky >= 0 && p.eligibleLocked(p.entries[p.sticky], now) {
			lease := p.entries[p.sticky].proxy
			return &lease
		}
		p.sticky = -1
		for i, e := range p.entries {
			if p.eligibleLocked(e, now) {
				p.sticky = i
				lease := e.proxy
				return &lease
			}
		}
		return nil
	}

	for i := 0; i < len(p.entries); i++ {
		idx := (p.next + i) % len(p.entries)
		if p.eligibleLocked(p.entries[idx], now) {
			p.next = idx + 1
			lease := p.entries[idx].proxy
			return &lease
		}
	}

	p.logger.Warn().Int("proxies", len(p.entries)).Msg("Proxy pool exhausted, falling back to direct egress")
	return nil
}

// Report records the outcome of one attempt through the given proxy.
// Success resets the consecutive-failure counter; crossing the failure
// threshold puts the proxy into cooldown. A nil proxy (direct egress)
// is ignored.
func (p *ProxyPool) Report(proxy *models.Proxy, success bool) {
	if proxy == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.entries {
		if e.proxy.Address != proxy.Address {
			continue
		}

		if success {
			e.failures = 0
			return
		}

		e.failures++
		if p.sticky == i {
			p.sticky = -1
		}
		if e.failures >= p.failureThreshold {
			e.cooldownUntil = p.now().Add(p.cooldown)
			p.logger.Warn().
				Str("proxy", e.proxy.Address).
				Int("failures", e.failures).
				Dur("cooldown", p.cooldown).
				Msg("Proxy entered cooldown")
		}
		return
	}
}

// eligibleLocked reports whether an entry may be handed out. An entry
// whose cooldown has expired becomes eligible again with a fresh
// failure counter. Caller holds p.mu.
func (p *ProxyPool) eligibleLocked(e *proxyEntry, now time.Time) bool {
	if e.cooldownUntil.IsZero() {
		return true
	}
	if now.Before(e.cooldownUntil) {
		return false
	}
	e.failures = 0
	e.cooldownUntil = time.Time{}
	return true
}
