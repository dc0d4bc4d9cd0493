package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/hotelwatch/internal/common"
	"github.com/ternarybob/hotelwatch/internal/crawler"
	"github.com/ternarybob/hotelwatch/internal/models"
)

type stubRunner struct {
	mu     sync.Mutex
	cycles int
	block  chan struct{}
}

func (s *stubRunner) RunCycle(ctx context.Context, requests []*models.SearchRequest, sites []models.SiteConfig) (*crawler.CycleResult, error) {
	s.mu.Lock()
	s.cycles++
	n := s.cycles
	s.mu.Unlock()

	if s.block != nil {
		<-s.block
	}

	return &crawler.CycleResult{CycleID: common.NewCycleID(), Metrics: models.CycleMetrics{WorkItems: n}}, nil
}

func (s *stubRunner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

type memRequestStore struct {
	mu       sync.Mutex
	requests map[string]*models.SearchRequest
	crawled  map[string]int
}

func newMemRequestStore() *memRequestStore {
	return &memRequestStore{
		requests: make(map[string]*models.SearchRequest),
		crawled:  make(map[string]int),
	}
}

func (m *memRequestStore) SaveRequest(ctx context.Context, req *models.SearchRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *memRequestStore) GetRequest(ctx context.Context, id string) (*models.SearchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id], nil
}

func (m *memRequestStore) ActiveRequests(ctx context.Context) ([]*models.SearchRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []*models.SearchRequest
	for _, req := range m.requests {
		if req.Active {
			active = append(active, req)
		}
	}
	return active, nil
}

func (m *memRequestStore) DeactivateRequest(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.requests[id]; ok {
		req.Active = false
	}
	return nil
}

func (m *memRequestStore) MarkCrawled(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crawled[id]++
	return nil
}

func activeRequest(id string) *models.SearchRequest {
	return &models.SearchRequest{
		ID:       id,
		Location: "Taipei",
		CheckIn:  time.Now().AddDate(0, 0, 7),
		CheckOut: time.Now().AddDate(0, 0, 9),
		Adults:   2,
		Rooms:    1,
		Active:   true,
	}
}

func TestRunOnceExecutesCycleAndStampsRequests(t *testing.T) {
	runner := &stubRunner{}
	store := newMemRequestStore()
	require.NoError(t, store.SaveRequest(context.Background(), activeRequest("req_1")))
	require.NoError(t, store.SaveRequest(context.Background(), activeRequest("req_2")))

	s := NewScheduler(runner, store, common.DefaultSites(), common.GetLogger())
	s.RunOnce(context.Background())

	assert.Equal(t, 1, runner.count())
	assert.Equal(t, 1, store.crawled["req_1"])
	assert.Equal(t, 1, store.crawled["req_2"])
}

func TestRunOnceSkipsWhenNoActiveRequests(t *testing.T) {
	runner := &stubRunner{}
	store := newMemRequestStore()

	req := activeRequest("req_1")
	req.Active = false
	require.NoError(t, store.SaveRequest(context.Background(), req))

	s := NewScheduler(runner, store, common.DefaultSites(), common.GetLogger())
	s.RunOnce(context.Background())

	assert.Zero(t, runner.count())
}

func TestTickSkipsWhileCycleInFlight(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	store := newMemRequestStore()
	require.NoError(t, store.SaveRequest(context.Background(), activeRequest("req_1")))

	s := NewScheduler(runner, store, common.DefaultSites(), common.GetLogger())

	go s.tick()

	// Give the first tick time to claim the running slot.
	time.Sleep(50 * time.Millisecond)
	s.tick()

	close(runner.block)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, runner.count())
}

func TestStartRejectsDoubleStart(t *testing.T) {
	runner := &stubRunner{}
	s := NewScheduler(runner, newMemRequestStore(), nil, common.GetLogger())

	require.NoError(t, s.Start("@every 1h"))
	defer s.Stop()

	assert.Error(t, s.Start("@every 1h"))
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	runner := &stubRunner{}
	s := NewScheduler(runner, newMemRequestStore(), nil, common.GetLogger())

	assert.Error(t, s.Start("not a schedule"))
}
