package store

import (
	"context"
	"database/sql"
	"fmt"

	"pccreg/internal/audit/models"
)

// PostgresStore persists the append-only audit trail.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO audit_events (action, actor, subject, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		event.Action, event.Actor, event.Subject, nullString(event.Detail), event.CreatedAt).
		Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// List returns the newest events first, up to limit.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `
		SELECT id, action, actor, subject, detail, created_at
		FROM audit_events
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		var event models.Event
		var detail sql.NullString
		if err := rows.Scan(&event.ID, &event.Action, &event.Actor, &event.Subject, &detail, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Detail = detail.String
		out = append(out, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
