// Package service records audit events, fanning them out to storage and an
// optional streaming sink.
package service

import (
	"context"
	"log/slog"
	"time"

	"pccreg/internal/audit/models"
	dErrors "pccreg/pkg/domain-errors"
)

// Store is the append-only persistence contract for audit events.
type Store interface {
	Append(ctx context.Context, event *models.Event) error
	List(ctx context.Context, limit int) ([]*models.Event, error)
}

// Publisher streams events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event) error
}

// Recorder implements the Emit contract the domain services depend on. All
// recording is fail-open: audit trouble is logged, never propagated, so a
// broken sink cannot block a registration or a config change.
type Recorder struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

func WithPublisher(publisher Publisher) Option {
	return func(r *Recorder) { r.publisher = publisher }
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Emit records one event. The store write is synchronous; streaming happens
// in the background with its own deadline, detached from the request context
// so an in-flight publish survives the response being sent.
func (r *Recorder) Emit(ctx context.Context, action, actor, subject, detail string) {
	event := &models.Event{
		Action:    action,
		Actor:     actor,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: r.now().UTC(),
	}

	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "failed to append audit event",
			"action", action,
			"error", err.Error(),
		)
	}

	if r.publisher != nil {
		go func(event models.Event) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := r.publisher.Publish(ctx, &event); err != nil {
				r.logger.Error("failed to publish audit event",
					"action", event.Action,
					"error", err.Error(),
				)
			}
		}(*event)
	}
}

// List returns the newest events first, up to limit. Zero or negative limits
// fall back to a sane page size.
func (r *Recorder) List(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	events, err := r.store.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}
