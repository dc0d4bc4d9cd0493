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

func pacedSite(min, max time.Duration) models.SiteConfig {
	return models.SiteConfig{
		ID:       "booking",
		Enabled:  true,
		DelayMin: min,
		DelayMax: max,
	}
}

func TestNextDelayWithinConfiguredRange(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(3*time.Second, 8*time.Second)

	for i := 0; i < 100; i++ {
		delay := p.NextDelay(site)
		assert.GreaterOrEqual(t, delay, 3*time.Second)
		assert.Less(t, delay, 8*time.Second)
	}
}

func TestNextDelayDegenerateRange(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(5*time.Second, 5*time.Second)
	assert.Equal(t, 5*time.Second, p.NextDelay(site))
}

func TestWaitEnforcesSpacingPerSite(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(40*time.Millisecond, 40*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, site))

	start := time.Now()
	require.NoError(t, p.Wait(ctx, site))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitSitesAreIndependent(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	booking := pacedSite(time.Second, time.Second)
	agoda := pacedSite(time.Second, time.Second)
	agoda.ID = "agoda"

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, booking))

	// The other site has no pacing history, so its first wait returns
	// immediately regardless of booking's cooldown.
	start := time.Now()
	require.NoError(t, p.Wait(ctx, agoda))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(5*time.Second, 5*time.Second)

	require.NoError(t, p.Wait(context.Background(), site))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Wait(ctx, site)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPlanProducesInteractionSequence(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(time.Second, 2*time.Second)

	for i := 0; i < 20; i++ {
		hints := p.Plan(site)

		assert.NotEmpty(t, hints.UserAgent)
		assert.NotEmpty(t, hints.AcceptLanguage)

		// One or two scrolls, then a return to the top of the page.
		require.True(t, len(hints.Interactions) == 2 || len(hints.Interactions) == 3)
		for _, step := range hints.Interactions[:len(hints.Interactions)-1] {
			assert.Equal(t, "scroll", step.Action)
		}
		assert.Equal(t, "top", hints.Interactions[len(hints.Interactions)-1].Action)

		for _, step := range hints.Interactions {
			assert.GreaterOrEqual(t, step.Pause, 500*time.Millisecond)
			assert.LessOrEqual(t, step.Pause, time.Second)
		}
	}
}

func TestPlanRotatesUserAgents(t *testing.T) {
	p := NewPacer(0, 42, common.GetLogger())
	site := pacedSite(time.Second, 2*time.Second)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[p.Plan(site).UserAgent] = true
	}
	assert.Greater(t, len(seen), 1)
}
