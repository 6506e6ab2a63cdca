package memory

import (
	"context"
	"fmt"
	"sync"

	audit "reclaim/pkg/platform/audit"
)

// InMemoryStore keeps audit entries per entity, in insertion order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]audit.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]audit.Entry)}
}

func key(entityType string, entityID int64) string {
	return fmt.Sprintf("%s/%d", entityType, entityID)
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(entry.EntityType, entry.EntityID)
	s.entries[k] = append(s.entries[k], entry)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityType string, entityID int64) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Entry{}, s.entries[key(entityType, entityID)]...), nil
}

// ListAll returns every recorded entry. Test helper.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Entry
	for _, entityEntries := range s.entries {
		all = append(all, entityEntries...)
	}
	return all, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]audit.Entry)
}
