package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"pccreg/internal/registration/models"
	"pccreg/pkg/platform/sentinel"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure. The
// registrations table carries a unique index on nim, which closes the
// read-then-write identity race: concurrent submissions for the same NIM
// resolve to exactly one row.
const uniqueViolation = "23505"

// PostgresStore persists registrations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (id, full_name, nim, study_program, major, track, whatsapp, proof_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		reg.ID,
		reg.FullName,
		reg.NIM,
		reg.StudyProgram,
		reg.Major,
		nullString(string(reg.Track)),
		reg.WhatsApp,
		nullString(reg.ProofURL),
		reg.Status,
		reg.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByNIM(ctx context.Context, nim string) (*models.Registration, error) {
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, selectColumns+` WHERE nim = $1`, nim))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration by nim: %w", err)
	}
	return reg, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration by id: %w", err)
	}
	return reg, nil
}

// List returns all registrations, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

// CountActiveByTrack counts registrations in {PENDING, VERIFY} for a track.
// Always computed live so status changes and deletions are reflected
// immediately.
func (s *PostgresStore) CountActiveByTrack(ctx context.Context, track models.Track) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE track = $1 AND status IN ('PENDING', 'VERIFY')
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, track).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active registrations: %w", err)
	}
	return count, nil
}

// UpdateStatus mutates the status field and nothing else, returning the
// updated row in one round trip.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $2
		WHERE id = $1
		RETURNING id, full_name, nim, study_program, major, track, whatsapp, proof_url, status, created_at
	`
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	return reg, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, full_name, nim, study_program, major, track, whatsapp, proof_url, status, created_at
	FROM registrations`

type registrationRow interface {
	Scan(dest ...any) error
}

func scanRegistration(row registrationRow) (*models.Registration, error) {
	var reg models.Registration
	var track, proofURL sql.NullString
	if err := row.Scan(
		&reg.ID,
		&reg.FullName,
		&reg.NIM,
		&reg.StudyProgram,
		&reg.Major,
		&track,
		&reg.WhatsApp,
		&proofURL,
		&reg.Status,
		&reg.CreatedAt,
	); err != nil {
		return nil, err
	}
	reg.Track = models.Track(track.String)
	reg.ProofURL = proofURL.String
	return &reg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
