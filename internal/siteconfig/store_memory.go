package siteconfig

import (
	"context"
	"sync"
)

// Store is the persistence contract for the singleton config. GetOrCreate
// must be atomic with respect to concurrent first reads: the storage layer's
// singleton key guarantees both callers converge on one row.
type Store interface {
	GetOrCreate(ctx context.Context) (*Config, error)
	SetMode(ctx context.Context, mode Mode) (*Config, error)
	SetQuotas(ctx context.Context, software, network, multimedia int) (*Config, error)
}

// InMemoryStore keeps the config in process memory. Used in tests and when
// no database is configured.
type InMemoryStore struct {
	mu  sync.Mutex
	cfg *Config
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) GetOrCreate(_ context.Context) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		s.cfg = DefaultConfig()
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (s *InMemoryStore) SetMode(_ context.Context, mode Mode) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		s.cfg = DefaultConfig()
	}
	s.cfg.Mode = mode
	cfg := *s.cfg
	return &cfg, nil
}

func (s *InMemoryStore) SetQuotas(_ context.Context, software, network, multimedia int) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		s.cfg = DefaultConfig()
	}
	s.cfg.MaxQuotaSoftware = software
	s.cfg.MaxQuotaNetwork = network
	s.cfg.MaxQuotaMultimedia = multimedia
	cfg := *s.cfg
	return &cfg, nil
}
