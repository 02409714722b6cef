// Package service implements the landing-page content operations.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"pccreg/internal/content/models"
	"pccreg/internal/siteconfig"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/sentinel"
)

// Store is the persistence contract for content entities. Implementations do
// pure I/O and report failures with sentinel errors.
type Store interface {
	ListTeamMembers(ctx context.Context) ([]*models.TeamMember, error)
	CreateTeamMember(ctx context.Context, m *models.TeamMember) error
	UpdateTeamMember(ctx context.Context, m *models.TeamMember) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error

	ListSponsors(ctx context.Context) ([]*models.Sponsor, error)
	CreateSponsor(ctx context.Context, sp *models.Sponsor) error
	UpdateSponsor(ctx context.Context, sp *models.Sponsor) (*models.Sponsor, error)
	DeleteSponsor(ctx context.Context, id string) error

	ListQnaItems(ctx context.Context) ([]*models.QnaItem, error)
	CreateQnaItem(ctx context.Context, q *models.QnaItem) error
	UpdateQnaItem(ctx context.Context, q *models.QnaItem) (*models.QnaItem, error)
	DeleteQnaItem(ctx context.Context, id string) error
}

// ConfigReader supplies the current display mode for Q&A filtering.
type ConfigReader interface {
	Read(ctx context.Context) (*siteconfig.Config, error)
}

// AuditEmitter records admin-driven content changes.
type AuditEmitter interface {
	Emit(ctx context.Context, action, actor, subject, detail string)
}

// Service owns the content business rules.
type Service struct {
	store  Store
	config ConfigReader
	logger *slog.Logger
	audit  AuditEmitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(audit AuditEmitter) Option {
	return func(s *Service) { s.audit = audit }
}

func New(store Store, config ConfigReader, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if config == nil {
		return nil, errors.New("config reader is required")
	}
	s := &Service{
		store:  store,
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TeamMembers lists committee members in display order.
func (s *Service) TeamMembers(ctx context.Context) ([]*models.TeamMember, error) {
	members, err := s.store.ListTeamMembers(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list team members")
	}
	return members, nil
}

func (s *Service) CreateTeamMember(ctx context.Context, m *models.TeamMember, actor string) (*models.TeamMember, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()
	if err := s.store.CreateTeamMember(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create team member")
	}
	s.emit(ctx, "team_member_created", actor, m.ID, m.Name)
	return m, nil
}

func (s *Service) UpdateTeamMember(ctx context.Context, m *models.TeamMember, actor string) (*models.TeamMember, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateTeamMember(ctx, m)
	if err != nil {
		return nil, translateWriteErr(err, "team member")
	}
	s.emit(ctx, "team_member_updated", actor, m.ID, m.Name)
	return updated, nil
}

func (s *Service) DeleteTeamMember(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteTeamMember(ctx, id); err != nil {
		return translateWriteErr(err, "team member")
	}
	s.emit(ctx, "team_member_deleted", actor, id, "")
	return nil
}

// Sponsors lists partner organizations in display order.
func (s *Service) Sponsors(ctx context.Context) ([]*models.Sponsor, error) {
	sponsors, err := s.store.ListSponsors(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sponsors")
	}
	return sponsors, nil
}

func (s *Service) CreateSponsor(ctx context.Context, sp *models.Sponsor, actor string) (*models.Sponsor, error) {
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	sp.ID = uuid.NewString()
	if err := s.store.CreateSponsor(ctx, sp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sponsor")
	}
	s.emit(ctx, "sponsor_created", actor, sp.ID, sp.Name)
	return sp, nil
}

func (s *Service) UpdateSponsor(ctx context.Context, sp *models.Sponsor, actor string) (*models.Sponsor, error) {
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateSponsor(ctx, sp)
	if err != nil {
		return nil, translateWriteErr(err, "sponsor")
	}
	s.emit(ctx, "sponsor_updated", actor, sp.ID, sp.Name)
	return updated, nil
}

func (s *Service) DeleteSponsor(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteSponsor(ctx, id); err != nil {
		return translateWriteErr(err, "sponsor")
	}
	s.emit(ctx, "sponsor_deleted", actor, id, "")
	return nil
}

// Qna lists every Q&A item regardless of mode. Admin view.
func (s *Service) Qna(ctx context.Context) ([]*models.QnaItem, error) {
	items, err := s.store.ListQnaItems(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list qna items")
	}
	return items, nil
}

// PublicQna lists the Q&A items visible under a display mode, in display
// order. Items without a mode show everywhere. An empty modeOverride means
// the site's current mode; a non-empty one must name a valid mode.
func (s *Service) PublicQna(ctx context.Context, modeOverride string) ([]*models.QnaItem, error) {
	var mode string
	if modeOverride != "" {
		parsed, err := siteconfig.ParseMode(modeOverride)
		if err != nil {
			return nil, err
		}
		mode = string(parsed)
	} else {
		cfg, err := s.config.Read(ctx)
		if err != nil {
			return nil, err
		}
		mode = string(cfg.Mode)
	}

	items, err := s.store.ListQnaItems(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list qna items")
	}

	visible := make([]*models.QnaItem, 0, len(items))
	for _, item := range items {
		if item.VisibleIn(mode) {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *Service) CreateQnaItem(ctx context.Context, q *models.QnaItem, actor string) (*models.QnaItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Mode != "" {
		if _, err := siteconfig.ParseMode(q.Mode); err != nil {
			return nil, err
		}
	}
	q.ID = uuid.NewString()
	if err := s.store.CreateQnaItem(ctx, q); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create qna item")
	}
	s.emit(ctx, "qna_item_created", actor, q.ID, q.Question)
	return q, nil
}

func (s *Service) UpdateQnaItem(ctx context.Context, q *models.QnaItem, actor string) (*models.QnaItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Mode != "" {
		if _, err := siteconfig.ParseMode(q.Mode); err != nil {
			return nil, err
		}
	}
	updated, err := s.store.UpdateQnaItem(ctx, q)
	if err != nil {
		return nil, translateWriteErr(err, "qna item")
	}
	s.emit(ctx, "qna_item_updated", actor, q.ID, q.Question)
	return updated, nil
}

func (s *Service) DeleteQnaItem(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteQnaItem(ctx, id); err != nil {
		return translateWriteErr(err, "qna item")
	}
	s.emit(ctx, "qna_item_deleted", actor, id, "")
	return nil
}

func (s *Service) emit(ctx context.Context, action, actor, subject, detail string) {
	if s.audit != nil {
		s.audit.Emit(ctx, action, actor, subject, detail)
	}
}

func translateWriteErr(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", entity)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update "+entity)
}
