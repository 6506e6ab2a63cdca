package claim

import (
	"context"
	"sort"
	"sync"

	"reclaim/internal/claims/models"
	"reclaim/pkg/domain"
	"reclaim/pkg/platform/sentinel"
)

// InMemory is the development and test store. Atomicity of the adjudication
// read-check-write sequence is provided by the service's transactional
// boundary, not by this store.
type InMemory struct {
	mu     sync.RWMutex
	claims map[domain.ClaimID]*models.Claim
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[domain.ClaimID]*models.Claim)}
}

func (s *InMemory) Create(_ context.Context, c *models.Claim) (domain.ClaimID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = domain.ClaimID(s.nextID)
	stored := *c
	s.claims[c.ID] = &stored
	return c.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ClaimID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *InMemory) Update(_ context.Context, c *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *c
	s.claims[c.ID] = &stored
	return nil
}

func (s *InMemory) StatusForUpdate(_ context.Context, id domain.ClaimID) (models.ClaimStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return c.Status, nil
}

func (s *InMemory) UpdateStatus(_ context.Context, id domain.ClaimID, status models.ClaimStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Status = status
	return nil
}

func (s *InMemory) ListPending(_ context.Context) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []models.Claim
	for _, c := range s.claims {
		if c.Status == models.StatusPending {
			pending = append(pending, *c)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}
