package found

import (
	"context"
	"sort"
	"sync"

	"reclaim/internal/items/models"
	"reclaim/pkg/domain"
	"reclaim/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	items  map[domain.ItemID]*models.FoundItem
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[domain.ItemID]*models.FoundItem)}
}

func (s *InMemory) Create(_ context.Context, item *models.FoundItem) (domain.ItemID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = domain.ItemID(s.nextID)
	stored := *item
	s.items[item.ID] = &stored
	return item.ID, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ItemID) (*models.FoundItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *InMemory) ListPublished(_ context.Context) ([]models.FoundItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var published []models.FoundItem
	for _, item := range s.items {
		if item.IsPublished() {
			published = append(published, *item)
		}
	}
	// Newest reports first, matching the public browse page.
	sort.Slice(published, func(i, j int) bool {
		if published[i].CreatedAt.Equal(published[j].CreatedAt) {
			return published[i].ID > published[j].ID
		}
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})
	return published, nil
}

func (s *InMemory) UpdateStatus(_ context.Context, id domain.ItemID, status models.ItemStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	item.Status = status
	return nil
}
