package notify

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// LogNotifier writes alert events to the application log. The default
// delivery path when no webhook is configured.
type LogNotifier struct {
	logger arbor.ILogger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger arbor.ILogger) interfaces.Notifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, cycleID string, alerts []models.AlertEvent) error {
	for _, alert := range alerts {
		n.logger.Warn().
			Str("cycle_id", cycleID).
			Str("threshold", alert.Threshold).
			Float64("observed", alert.Observed).
			Float64("limit", alert.Limit).
			Msg("Performance alert")
	}
	return nil
}
