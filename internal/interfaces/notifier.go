package interfaces

import (
	"context"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// Notifier delivers alert events raised at cycle end. Transport
// (log, webhook, mail) is an implementation concern.
type Notifier interface {
	Notify(ctx context.Context, cycleID string, alerts []models.AlertEvent) error
}
