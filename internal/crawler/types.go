package crawler

import (
	"github.com/ternarybob/hotelwatch/internal/models"
)

// WorkItem pairs one search request with one site for a single cycle.
// Created by the orchestrator at cycle start; destroyed once a
// terminal observation is recorded.
type WorkItem struct {
	Request *models.SearchRequest
	Site    models.SiteConfig
}

// CycleResult is everything RunCycle hands back to the caller: a
// complete observation set (one terminal observation per work item),
// the finalized metrics and any triggered alerts. Partial failures are
// data in here, never errors crossing the entry point.
type CycleResult struct {
	CycleID      string
	Observations []*models.PriceObservation
	Metrics      models.CycleMetrics
	Alerts       []models.AlertEvent
}
