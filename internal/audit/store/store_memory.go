package store

import (
	"context"
	"sync"

	"pccreg/internal/audit/models"
)

// InMemoryStore keeps the audit trail in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []*models.Event
	nextID int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *event
	copied.ID = s.nextID
	s.nextID++
	s.events = append(s.events, &copied)
	event.ID = copied.ID
	return nil
}

// List returns the newest events first, up to limit.
func (s *InMemoryStore) List(_ context.Context, limit int) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*models.Event, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		copied := *s.events[i]
		out = append(out, &copied)
	}
	return out, nil
}
