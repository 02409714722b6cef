// Package store provides the registration persistence implementations.
// Stores are pure I/O; validation and quota rules live in the service.
package store

import (
	"context"
	"sort"
	"sync"

	"pccreg/internal/registration/models"
	"pccreg/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations in a map guarded by a mutex. The NIM
// uniqueness check runs under the same lock as the insert, so the in-memory
// store gives the same at-most-one-per-NIM guarantee as the Postgres unique
// constraint.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Registration
	byNIM map[string]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[string]*models.Registration),
		byNIM: make(map[string]string),
	}
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byNIM[reg.NIM]; exists {
		return sentinel.ErrConflict
	}
	cp := *reg
	s.byID[reg.ID] = &cp
	s.byNIM[reg.NIM] = reg.ID
	return nil
}

func (s *InMemoryStore) FindByNIM(_ context.Context, nim string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNIM[nim]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

// List returns all registrations, newest first.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Registration, 0, len(s.byID))
	for _, reg := range s.byID {
		cp := *reg
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountActiveByTrack counts registrations in {PENDING, VERIFY} for a track.
func (s *InMemoryStore) CountActiveByTrack(_ context.Context, track models.Track) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, reg := range s.byID {
		if reg.Track == track && reg.Status.CountsTowardQuota() {
			count++
		}
	}
	return count, nil
}

// UpdateStatus mutates the status field and nothing else.
func (s *InMemoryStore) UpdateStatus(_ context.Context, id string, status models.Status) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	reg.Status = status
	cp := *reg
	return &cp, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byNIM, reg.NIM)
	delete(s.byID, id)
	return nil
}
