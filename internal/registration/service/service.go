package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	regmetrics "pccreg/internal/registration/metrics"
	"pccreg/internal/registration/models"
	"pccreg/internal/siteconfig"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/sentinel"
)

// Store is the persistence contract the service drives. Implementations are
// pure I/O and signal facts with sentinel errors.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByNIM(ctx context.Context, nim string) (*models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	List(ctx context.Context) ([]*models.Registration, error)
	CountActiveByTrack(ctx context.Context, track models.Track) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error)
	Delete(ctx context.Context, id string) error
}

// ConfigReader loads the singleton site config, lazily creating it with
// defaults on first read.
type ConfigReader interface {
	Read(ctx context.Context) (*siteconfig.Config, error)
}

// AuditEmitter records admin-driven mutations. Fail-open: a sink failure
// never blocks the operation.
type AuditEmitter interface {
	Emit(ctx context.Context, action, actor, subject, detail string)
}

var tracer = otel.Tracer("pccreg/registration")

// Service owns the quota-gated registration workflow: submission validation,
// live capacity counting, and the admin status lifecycle.
type Service struct {
	store   Store
	config  ConfigReader
	logger  *slog.Logger
	metrics *regmetrics.Metrics
	audit   AuditEmitter
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(audit AuditEmitter) Option {
	return func(s *Service) { s.audit = audit }
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, config ConfigReader, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("registration store is required")
	}
	if config == nil {
		return nil, errors.New("config reader is required")
	}
	s := &Service{
		store:  store,
		config: config,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitInput carries the applicant-provided fields. ProofURL references a
// document already accepted by the upload service.
type SubmitInput struct {
	FullName     string
	NIM          string
	StudyProgram string
	Major        string
	Track        models.Track
	WhatsApp     string
	ProofURL     string
}

// Submit validates and persists a new application in PENDING status, or fails
// without side effects. Checks run in a fixed order so the caller always gets
// the most user-correctable error: required fields, then NIM uniqueness, then
// track capacity.
//
// The uniqueness pre-check and the quota check are read-then-write; the store
// backstops identity with its unique constraint on NIM, so a concurrent
// duplicate surfaces as a conflict on Create. Quota ceilings stay soft under
// contention (two submissions can both observe count < ceiling); the ceiling
// is a registration cap, not a safety invariant, so this is accepted.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Registration, error) {
	ctx, span := tracer.Start(ctx, "registration.Submit")
	defer span.End()

	reg, err := models.NewRegistration(
		uuid.NewString(), in.FullName, in.NIM, in.StudyProgram, in.Major,
		in.Track, in.WhatsApp, in.ProofURL, s.now(),
	)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("registration.track", string(reg.Track)))

	if _, err := s.store.FindByNIM(ctx, reg.NIM); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "this student ID (NIM) is already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
	}

	if reg.Track != "" {
		if err := s.checkQuota(ctx, reg.Track); err != nil {
			return nil, err
		}
	}

	if err := s.store.Create(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost the race to a concurrent submission with the same NIM.
			return nil, dErrors.New(dErrors.CodeConflict, "this student ID (NIM) is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(reg.Track))
	}
	s.logger.InfoContext(ctx, "registration created",
		"id", reg.ID,
		"track", reg.Track,
	)
	return reg, nil
}

// checkQuota compares the live {PENDING, VERIFY} count for a track against
// its ceiling from the site config.
func (s *Service) checkQuota(ctx context.Context, track models.Track) error {
	cfg, err := s.config.Read(ctx)
	if err != nil {
		// Config absence is a server fault, not a user error.
		return dErrors.Wrap(err, dErrors.CodeInternal, "site config unavailable")
	}

	count, err := s.store.CountActiveByTrack(ctx, track)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count registrations")
	}

	ceiling := cfg.CeilingFor(track)
	if count >= ceiling {
		if s.metrics != nil {
			s.metrics.IncrementQuotaRejected(string(track))
		}
		return dErrors.Newf(dErrors.CodeQuotaExceeded, "%s quota is full (%d participants)", track, ceiling)
	}
	return nil
}

// List returns all registrations, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Registration, error) {
	regs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// QuotaInfo reports live occupancy for each track. The three counts are
// independent queries, so they run concurrently; a config failure means
// "quota unknown", never "quota full".
func (s *Service) QuotaInfo(ctx context.Context) (*models.QuotaInfo, error) {
	ctx, span := tracer.Start(ctx, "registration.QuotaInfo")
	defer span.End()

	cfg, err := s.config.Read(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "site config unavailable")
	}

	counts := make(map[models.Track]int, len(models.Tracks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, track := range models.Tracks {
		g.Go(func() error {
			count, err := s.store.CountActiveByTrack(gctx, track)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[track] = count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count registrations")
	}

	quotaFor := func(track models.Track) models.TrackQuota {
		ceiling := cfg.CeilingFor(track)
		return models.TrackQuota{
			Current: counts[track],
			Max:     ceiling,
			Full:    counts[track] >= ceiling,
		}
	}
	return &models.QuotaInfo{
		Software:   quotaFor(models.TrackSoftware),
		Network:    quotaFor(models.TrackNetwork),
		Multimedia: quotaFor(models.TrackMultimedia),
	}, nil
}

// UpdateStatus moves a registration to the target status. No source-status
// validation: admins may move freely between states, including back out of
// REJECT, which immediately affects the live counts.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.Status, actor string) (*models.Registration, error) {
	ctx, span := tracer.Start(ctx, "registration.UpdateStatus")
	defer span.End()

	if !status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", status)
	}

	reg, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registration")
	}

	if s.metrics != nil {
		s.metrics.IncrementStatusChange(string(status))
	}
	if s.audit != nil {
		s.audit.Emit(ctx, "registration_status_updated", actor, reg.ID, string(status))
	}
	return reg, nil
}

// Delete permanently removes a registration, implicitly freeing its quota
// slot because counts are derived live.
func (s *Service) Delete(ctx context.Context, id string, actor string) error {
	ctx, span := tracer.Start(ctx, "registration.Delete")
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, "registration_deleted", actor, id, "")
	}
	return nil
}
