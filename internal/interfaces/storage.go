package interfaces

import (
	"context"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// PriceStore persists price observations. The engine appends a batch
// after each cycle; the store owns lowest-price computation across
// sites for presentation.
type PriceStore interface {
	AppendObservations(ctx context.Context, observations []*models.PriceObservation) error
	ObservationsForRequest(ctx context.Context, requestID string, limit int) ([]*models.PriceObservation, error)
	LowestPrice(ctx context.Context, requestID string) (*models.PriceObservation, error)
}

// RequestStore owns the user-defined search requests. The engine reads
// active requests at cycle start and never mutates them mid-cycle.
type RequestStore interface {
	SaveRequest(ctx context.Context, req *models.SearchRequest) error
	GetRequest(ctx context.Context, id string) (*models.SearchRequest, error)
	ActiveRequests(ctx context.Context) ([]*models.SearchRequest, error)
	DeactivateRequest(ctx context.Context, id string) error
	MarkCrawled(ctx context.Context, id string) error
}
