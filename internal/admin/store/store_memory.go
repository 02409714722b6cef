package store

import (
	"context"
	"strings"
	"sync"

	"pccreg/internal/admin/models"
	"pccreg/pkg/platform/sentinel"
)

// InMemoryStore keeps admin accounts in process memory. Used in tests and
// when the service runs without a database.
type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*models.Admin
	byUsername map[string]*models.Admin
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[string]*models.Admin),
		byUsername: make(map[string]*models.Admin),
	}
}

func (s *InMemoryStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(admin.Username)
	if _, ok := s.byUsername[key]; ok {
		return sentinel.ErrConflict
	}
	copied := *admin
	s.byID[admin.ID] = &copied
	s.byUsername[key] = &copied
	return nil
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *admin
	return &copied, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *admin
	return &copied, nil
}

// Upsert creates the account or replaces its password hash. Seed path.
func (s *InMemoryStore) Upsert(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(admin.Username)
	if existing, ok := s.byUsername[key]; ok {
		existing.PasswordHash = admin.PasswordHash
		return nil
	}
	copied := *admin
	s.byID[admin.ID] = &copied
	s.byUsername[key] = &copied
	return nil
}
