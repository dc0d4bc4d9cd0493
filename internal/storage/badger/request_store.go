package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/hotelwatch/internal/interfaces"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// RequestStore persists user-defined search requests in BadgerDB.
type RequestStore struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRequestStore creates a BadgerDB-backed request store.
func NewRequestStore(db *BadgerDB, logger arbor.ILogger) interfaces.RequestStore {
	return &RequestStore{
		db:     db,
		logger: logger,
	}
}

// SaveRequest upserts a search request. A missing CreatedAt is stamped
// on first save.
func (s *RequestStore) SaveRequest(ctx context.Context, req *models.SearchRequest) error {
	if req.ID == "" {
		return fmt.Errorf("search request missing id")
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(req.ID, req); err != nil {
		return fmt.Errorf("failed to store search request %s: %w", req.ID, err)
	}

	s.logger.Debug().Str("request_id", req.ID).Str("location", req.Location).Msg("BadgerDB: Stored search request")
	return nil
}

// GetRequest returns the request with the given ID, or nil when it
// does not exist.
func (s *RequestStore) GetRequest(ctx context.Context, id string) (*models.SearchRequest, error) {
	var req models.SearchRequest
	if err := s.db.Store().Get(id, &req); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get search request %s: %w", id, err)
	}
	return &req, nil
}

// ActiveRequests returns all requests currently eligible for crawling.
func (s *RequestStore) ActiveRequests(ctx context.Context) ([]*models.SearchRequest, error) {
	var requests []*models.SearchRequest
	if err := s.db.Store().Find(&requests, badgerhold.Where("Active").Eq(true).Index("Active")); err != nil {
		return nil, fmt.Errorf("failed to query active search requests: %w", err)
	}
	return requests, nil
}

// DeactivateRequest removes a request from future crawl cycles without
// deleting its observation history.
func (s *RequestStore) DeactivateRequest(ctx context.Context, id string) error {
	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("search request %s not found", id)
	}

	req.Active = false
	return s.SaveRequest(ctx, req)
}

// MarkCrawled stamps the request with the time of its latest completed
// cycle.
func (s *RequestStore) MarkCrawled(ctx context.Context, id string) error {
	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("search request %s not found", id)
	}

	req.LastCrawledAt = time.Now()
	return s.SaveRequest(ctx, req)
}
