package crawler

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// Monitor accumulates per-cycle outcomes into metrics and evaluates
// alert thresholds once at cycle end, not per observation, to avoid
// alert flooding.
type Monitor struct {
	mu sync.Mutex

	cycleID       string
	startedAt     time.Time
	workItems     int
	attempts      int
	successes     int
	failures      int
	byClass       map[models.ErrorClass]int
	totalDuration time.Duration

	thresholds common.AlertThresholds
	logger     arbor.ILogger
}

// NewMonitor creates a monitor for one cycle.
func NewMonitor(cycleID string, thresholds common.AlertThresholds, logger arbor.ILogger) *Monitor {
	return &Monitor{
		cycleID:    cycleID,
		startedAt:  time.Now(),
		byClass:    make(map[models.ErrorClass]int),
		thresholds: thresholds,
		logger:     logger,
	}
}

// Record accumulates one terminal observation into the in-progress
// cycle metrics.
func (m *Monitor) Record(obs *models.PriceObservation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workItems++
	m.attempts += obs.Attempts
	m.totalDuration += obs.Duration

	if obs.Success {
		m.successes++
		return
	}
	m.failures++
	m.byClass[obs.Class]++
}

// Finalize computes the cycle metrics and returns one alert event per
// breached threshold. Threshold comparison is strictly greater-than:
// an error rate exactly at the threshold does not alert.
func (m *Monitor) Finalize() (models.CycleMetrics, []models.AlertEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	metrics := models.CycleMetrics{
		CycleID:         m.cycleID,
		StartedAt:       m.startedAt,
		FinishedAt:      now,
		WorkItems:       m.workItems,
		Attempts:        m.attempts,
		Successes:       m.successes,
		Failures:        m.failures,
		FailuresByClass: m.byClass,
	}
	if m.attempts > 0 {
		metrics.ErrorRate = float64(m.failures) / float64(m.attempts)
	}
	if m.workItems > 0 {
		metrics.MeanResponseTime = m.totalDuration / time.Duration(m.workItems)
	}

	var alerts []models.AlertEvent

	if metrics.ErrorRate > m.thresholds.ErrorRate {
		alerts = append(alerts, models.AlertEvent{
			Threshold: models.ThresholdErrorRate,
			Observed:  metrics.ErrorRate,
			Limit:     m.thresholds.ErrorRate,
			CycleID:   m.cycleID,
			RaisedAt:  now,
		})
	}

	if metrics.MeanResponseTime > m.thresholds.ResponseTime {
		alerts = append(alerts, models.AlertEvent{
			Threshold: models.ThresholdResponseTime,
			Observed:  metrics.MeanResponseTime.Seconds(),
			Limit:     m.thresholds.ResponseTime.Seconds(),
			CycleID:   m.cycleID,
			RaisedAt:  now,
		})
	}

	m.logger.Info().
		Str("cycle_id", m.cycleID).
		Int("work_items", metrics.WorkItems).
		Int("attempts", metrics.Attempts).
		Int("successes", metrics.Successes).
		Int("failures", metrics.Failures).
		Float64("error_rate", metrics.ErrorRate).
		Dur("mean_response_time", metrics.MeanResponseTime).
		Int("alerts", len(alerts)).
		Msg("Cycle metrics finalized")

	return metrics, alerts
}
