package store

import (
	"context"
	"sort"
	"sync"

	"pccreg/internal/content/models"
	"pccreg/pkg/platform/sentinel"
)

// InMemoryStore keeps content in process memory. Used in tests and when the
// service runs without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	members  map[string]*models.TeamMember
	sponsors map[string]*models.Sponsor
	qna      map[string]*models.QnaItem
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		members:  make(map[string]*models.TeamMember),
		sponsors: make(map[string]*models.Sponsor),
		qna:      make(map[string]*models.QnaItem),
	}
}

func (s *InMemoryStore) ListTeamMembers(_ context.Context) ([]*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) CreateTeamMember(_ context.Context, m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *m
	s.members[m.ID] = &copied
	return nil
}

func (s *InMemoryStore) UpdateTeamMember(_ context.Context, m *models.TeamMember) (*models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[m.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *m
	s.members[m.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemoryStore) DeleteTeamMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.members, id)
	return nil
}

func (s *InMemoryStore) ListSponsors(_ context.Context) ([]*models.Sponsor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Sponsor, 0, len(s.sponsors))
	for _, sp := range s.sponsors {
		copied := *sp
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) CreateSponsor(_ context.Context, sp *models.Sponsor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *sp
	s.sponsors[sp.ID] = &copied
	return nil
}

func (s *InMemoryStore) UpdateSponsor(_ context.Context, sp *models.Sponsor) (*models.Sponsor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sponsors[sp.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *sp
	s.sponsors[sp.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemoryStore) DeleteSponsor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sponsors[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sponsors, id)
	return nil
}

func (s *InMemoryStore) ListQnaItems(_ context.Context) ([]*models.QnaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.QnaItem, 0, len(s.qna))
	for _, q := range s.qna {
		copied := *q
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) CreateQnaItem(_ context.Context, q *models.QnaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *q
	s.qna[q.ID] = &copied
	return nil
}

func (s *InMemoryStore) UpdateQnaItem(_ context.Context, q *models.QnaItem) (*models.QnaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.qna[q.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *q
	s.qna[q.ID] = &copied
	result := copied
	return &result, nil
}

func (s *InMemoryStore) DeleteQnaItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.qna[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.qna, id)
	return nil
}
