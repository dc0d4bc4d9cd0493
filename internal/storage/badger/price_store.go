package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// PriceStore persists price observations in BadgerDB.
type PriceStore struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPriceStore creates a BadgerDB-backed price store.
func NewPriceStore(db *BadgerDB, logger arbor.ILogger) interfaces.PriceStore {
	return &PriceStore{
		db:     db,
		logger: logger,
	}
}

// AppendObservations persists one cycle's observation batch. Each
// observation is upserted under its own ID; a partial write error
// aborts the batch and is returned to the caller.
func (s *PriceStore) AppendObservations(ctx context.Context, observations []*models.PriceObservation) error {
	for _, obs := range observations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.db.Store().Upsert(obs.ID, obs); err != nil {
			return fmt.Errorf("failed to store observation %s: %w", obs.ID, err)
		}
	}

	s.logger.Debug().Int("observations", len(observations)).Msg("BadgerDB: Stored observation batch")
	return nil
}

// ObservationsForRequest returns the request's observations, newest
// first. limit <= 0 returns everything.
func (s *PriceStore) ObservationsForRequest(ctx context.Context, requestID string, limit int) ([]*models.PriceObservation, error) {
	var observations []*models.PriceObservation
	if err := s.db.Store().Find(&observations, badgerhold.Where("RequestID").Eq(requestID).Index("RequestID")); err != nil {
		return nil, fmt.Errorf("failed to query observations for request %s: %w", requestID, err)
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].ScrapedAt.After(observations[j].ScrapedAt)
	})

	if limit > 0 && len(observations) > limit {
		observations = observations[:limit]
	}
	return observations, nil
}

// LowestPrice returns the cheapest successful observation recorded for
// the request across all sites and cycles, or nil when none exists.
func (s *PriceStore) LowestPrice(ctx context.Context, requestID string) (*models.PriceObservation, error) {
	var observations []*models.PriceObservation
	if err := s.db.Store().Find(&observations, badgerhold.Where("RequestID").Eq(requestID).Index("RequestID")); err != nil {
		return nil, fmt.Errorf("failed to query observations for request %s: %w", requestID, err)
	}

	var lowest *models.PriceObservation
	for _, obs := range observations {
		if !obs.Success {
			continue
		}
		if lowest == nil || obs.Price < lowest.Price {
			lowest = obs
		}
	}
	return lowest, nil
}
