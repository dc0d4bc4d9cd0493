package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/models"
)

func testPolicy(maxAttempts int) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		MinWait:     time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func testController(policy *RetryPolicy) *Controller {
	logger := common.GetLogger()
	pool := NewProxyPool(common.ProxyConfig{}, logger)
	pacer := NewPacer(0, 1, logger)
	return NewController(policy, pool, pacer, logger)
}

func testSite() models.SiteConfig {
	return models.SiteConfig{
		ID:             "booking",
		Name:           "Booking.com",
		BaseURL:        "https://www.booking.com",
		Enabled:        true,
		RequestTimeout: time.Second,
	}
}

func testRequest() *models.SearchRequest {
	return &models.SearchRequest{
		ID:       "req_test",
		Location: "Taipei",
		CheckIn:  time.Now().AddDate(0, 0, 7),
		CheckOut: time.Now().AddDate(0, 0, 9),
		Adults:   2,
		Rooms:    1,
		Active:   true,
	}
}

func TestBackoffForStaysWithinBounds(t *testing.T) {
	policy := &RetryPolicy{
		MaxAttempts: 5,
		MinWait:     2 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}

	for attempt := 2; attempt <= 5; attempt++ {
		for i := 0; i < 50; i++ {
			wait := policy.BackoffFor(attempt)
			assert.GreaterOrEqual(t, wait, policy.MinWait, "attempt %d", attempt)
			assert.LessOrEqual(t, wait, policy.MaxWait, "attempt %d", attempt)
		}
	}
}

func TestBackoffForGrowsWithAttempts(t *testing.T) {
	policy := &RetryPolicy{
		MaxAttempts: 4,
		MinWait:     2 * time.Second,
		MaxWait:     time.Minute,
		Multiplier:  2.0,
	}

	// Base values without jitter: 2s, 4s, 8s. Jitter adds at most 10%,
	// so each attempt's wait must exceed the previous base.
	second := policy.BackoffFor(3)
	third := policy.BackoffFor(4)
	assert.GreaterOrEqual(t, second, 4*time.Second)
	assert.GreaterOrEqual(t, third, 8*time.Second)
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			return &models.RawSiteResult{Quotes: []models.HotelQuote{{HotelName: "Grand Hotel", Price: 120, Currency: "USD"}}}, nil
		},
	}

	c := testController(testPolicy(3))
	result, attempts, class, err := c.Execute(context.Background(), adapter, testSite(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, models.ClassNone, class)
	require.NotNil(t, result)
	assert.Len(t, result.Quotes, 1)
}

func TestExecuteRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			calls++
			if calls < 3 {
				return nil, ErrConnection
			}
			return &models.RawSiteResult{Quotes: []models.HotelQuote{{HotelName: "Grand Hotel", Price: 99}}}, nil
		},
	}

	c := testController(testPolicy(3))
	result, attempts, class, err := c.Execute(context.Background(), adapter, testSite(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, models.ClassNone, class)
	require.NotNil(t, result)
}

func TestExecuteFatalStopsImmediately(t *testing.T) {
	calls := 0
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			calls++
			return nil, ErrBlocked
		},
	}

	c := testController(testPolicy(3))
	result, attempts, class, err := c.Execute(context.Background(), adapter, testSite(), testRequest())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
	assert.Equal(t, models.ClassBlocked, class)
}

func TestExecuteExhaustsRetryBudget(t *testing.T) {
	calls := 0
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			calls++
			return nil, ErrTimeout
		},
	}

	c := testController(testPolicy(3))
	result, attempts, class, err := c.Execute(context.Background(), adapter, testSite(), testRequest())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, models.ClassRetriesExhausted, class)
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	site := testSite()
	site.RequestTimeout = time.Second

	c := testController(testPolicy(5))
	result, _, class, err := c.Execute(ctx, adapter, site, testRequest())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, models.ClassCycleTimeout, class)
}

func TestExecuteReportsBlockedProxyToPool(t *testing.T) {
	logger := common.GetLogger()
	pool := NewProxyPool(common.ProxyConfig{
		Enabled:          true,
		Rotation:         true,
		FailureThreshold: 1,
		Cooldown:         time.Hour,
		Proxies:          []common.ProxyEntry{{Address: "10.0.0.1:8080", Protocol: "http"}},
	}, logger)

	var seenProxy *models.Proxy
	adapter := &stubAdapter{
		siteID: "booking",
		fetch: func(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
			seenProxy = proxy
			return nil, ErrBlocked
		},
	}

	c := NewController(testPolicy(3), pool, NewPacer(0, 1, logger), logger)
	_, _, class, err := c.Execute(context.Background(), adapter, testSite(), testRequest())

	require.Error(t, err)
	assert.Equal(t, models.ClassBlocked, class)
	require.NotNil(t, seenProxy)
	assert.Equal(t, "10.0.0.1:8080", seenProxy.Address)

	// One blocked attempt crossed the threshold, so the only proxy is
	// cooling down and the pool falls back to direct egress.
	assert.Nil(t, pool.Acquire())
}
