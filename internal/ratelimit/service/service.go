// Package service enforces the sliding-window rate limit policies.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	rlmetrics "pccreg/internal/ratelimit/metrics"
	"pccreg/internal/ratelimit/models"
	dErrors "pccreg/pkg/domain-errors"
)

// WindowStore counts hits per key within a sliding window. Implementations do
// pure I/O; a store failure must not take registration down, so the service
// fails open on error.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
	Reset(ctx context.Context, key string) error
}

// Service checks identifiers against the fixed policies.
type Service struct {
	store    WindowStore
	logger   *slog.Logger
	metrics  *rlmetrics.Metrics
	disabled bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *rlmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDisabled turns every check into an unconditional allow. Local
// development switch.
func WithDisabled(disabled bool) Option {
	return func(s *Service) { s.disabled = disabled }
}

func New(store WindowStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("window store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check records a hit for identifier under policy. It returns a rate_limited
// error when the window is full, and the window state either way. A store
// failure is logged and allowed through: losing rate limit precision is
// cheaper than refusing legitimate registrations.
func (s *Service) Check(ctx context.Context, policy models.Policy, identifier string) (*models.Result, error) {
	if s.disabled || identifier == "" {
		return &models.Result{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}, nil
	}

	result, err := s.store.Allow(ctx, policy.Key(identifier), policy.Limit, policy.Window)
	if err != nil {
		s.logger.WarnContext(ctx, "rate limit store unavailable, allowing request",
			"policy", policy.Name,
			"error", err.Error(),
		)
		if s.metrics != nil {
			s.metrics.IncrementFailOpen(policy.Name)
		}
		return &models.Result{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}, nil
	}

	if !result.Allowed {
		if s.metrics != nil {
			s.metrics.IncrementDenied(policy.Name)
		}
		return result, dErrors.Newf(dErrors.CodeRateLimited, "too many requests, retry after %d seconds", int(result.RetryAfter.Seconds())+1)
	}
	return result, nil
}

// Reset clears the window for an identifier under policy.
func (s *Service) Reset(ctx context.Context, policy models.Policy, identifier string) error {
	if err := s.store.Reset(ctx, policy.Key(identifier)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset rate limit")
	}
	return nil
}
