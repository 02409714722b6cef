package siteconfig

import (
	"context"
	"log/slog"

	dErrors "pccreg/pkg/domain-errors"
)

// Service owns the configuration business rules: lazy creation with defaults,
// mode switching, and ceiling edits.
type Service struct {
	store  Store
	logger *slog.Logger
	audit  AuditEmitter
}

// AuditEmitter records admin-driven config changes. Emission is fail-open:
// a sink failure never blocks the config write.
type AuditEmitter interface {
	Emit(ctx context.Context, action, actor, subject, detail string)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(audit AuditEmitter) Option {
	return func(s *Service) { s.audit = audit }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the singleton config, creating it with documented defaults on
// first access. It never fails due to absence.
func (s *Service) Read(ctx context.Context) (*Config, error) {
	cfg, err := s.store.GetOrCreate(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load site config")
	}
	return cfg, nil
}

// UpdateMode sets the display mode field only.
func (s *Service) UpdateMode(ctx context.Context, mode Mode, actor string) (*Config, error) {
	if !mode.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown display mode %q", mode)
	}
	cfg, err := s.store.SetMode(ctx, mode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update site config")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, "config_mode_updated", actor, "site_config", string(mode))
	}
	return cfg, nil
}

// UpdateQuotas sets the three per-track ceilings. Lowering a ceiling below
// the current live count is allowed: existing registrations keep their slots
// and the track simply reports full.
func (s *Service) UpdateQuotas(ctx context.Context, software, network, multimedia int, actor string) (*Config, error) {
	if software < 0 || network < 0 || multimedia < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "quota ceilings must not be negative")
	}
	cfg, err := s.store.SetQuotas(ctx, software, network, multimedia)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update site config")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, "config_quotas_updated", actor, "site_config", "")
	}
	return cfg, nil
}
