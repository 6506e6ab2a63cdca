package lost

import (
	"context"
	"sync"

	"reclaim/internal/items/models"
	"reclaim/pkg/domain"
)

type InMemory struct {
	mu     sync.Mutex
	items  map[domain.ItemID]*models.LostItem
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[domain.ItemID]*models.LostItem)}
}

func (s *InMemory) Create(_ context.Context, item *models.LostItem) (domain.ItemID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = domain.ItemID(s.nextID)
	stored := *item
	s.items[item.ID] = &stored
	return item.ID, nil
}
