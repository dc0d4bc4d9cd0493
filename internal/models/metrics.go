package models

import "time"

// CycleMetrics aggregates the outcomes of one orchestration cycle.
// Built incrementally by the performance monitor, finalized at cycle
// end, then handed to the caller - the engine does not retain it.
type CycleMetrics struct {
	CycleID          string             `json:"cycle_id"`
	StartedAt        time.Time          `json:"started_at"`
	FinishedAt       time.Time          `json:"finished_at"`
	WorkItems        int                `json:"work_items"`
	Attempts         int                `json:"attempts"`
	Successes        int                `json:"successes"`
	Failures         int                `json:"failures"`
	FailuresByClass  map[ErrorClass]int `json:"failures_by_class,omitempty"`
	ErrorRate        float64            `json:"error_rate"`
	MeanResponseTime time.Duration      `json:"mean_response_time"`
}

// Alert threshold names emitted by the performance monitor.
const (
	ThresholdErrorRate    = "error_rate"
	ThresholdResponseTime = "response_time"
)

// AlertEvent records a breached threshold for one completed cycle.
// Thresholds are evaluated once per cycle to avoid alert flooding.
type AlertEvent struct {
	Threshold string    `json:"threshold"`
	Observed  float64   `json:"observed"`
	Limit     float64   `json:"limit"`
	CycleID   string    `json:"cycle_id"`
	RaisedAt  time.Time `json:"raised_at"`
}
