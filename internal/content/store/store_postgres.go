package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pccreg/internal/content/models"
	"pccreg/pkg/platform/sentinel"
)

// PostgresStore persists landing-page content.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListTeamMembers(ctx context.Context) ([]*models.TeamMember, error) {
	query := `
		SELECT id, name, role, photo_url, display_order
		FROM team_members
		ORDER BY display_order ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var out []*models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var photo sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &photo, &m.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		m.PhotoURL = photo.String
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateTeamMember(ctx context.Context, m *models.TeamMember) error {
	query := `
		INSERT INTO team_members (id, name, role, photo_url, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, m.ID, m.Name, m.Role, nullString(m.PhotoURL), m.DisplayOrder); err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateTeamMember(ctx context.Context, m *models.TeamMember) (*models.TeamMember, error) {
	query := `
		UPDATE team_members
		SET name = $2, role = $3, photo_url = $4, display_order = $5
		WHERE id = $1
		RETURNING id, name, role, photo_url, display_order
	`
	var updated models.TeamMember
	var photo sql.NullString
	err := s.db.QueryRowContext(ctx, query, m.ID, m.Name, m.Role, nullString(m.PhotoURL), m.DisplayOrder).
		Scan(&updated.ID, &updated.Name, &updated.Role, &photo, &updated.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update team member: %w", err)
	}
	updated.PhotoURL = photo.String
	return &updated, nil
}

func (s *PostgresStore) DeleteTeamMember(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "team_members", id)
}

func (s *PostgresStore) ListSponsors(ctx context.Context) ([]*models.Sponsor, error) {
	query := `
		SELECT id, name, logo_url, website_url, display_order
		FROM sponsors
		ORDER BY display_order ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	defer rows.Close()

	var out []*models.Sponsor
	for rows.Next() {
		var sp models.Sponsor
		var logo, website sql.NullString
		if err := rows.Scan(&sp.ID, &sp.Name, &logo, &website, &sp.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan sponsor: %w", err)
		}
		sp.LogoURL = logo.String
		sp.WebsiteURL = website.String
		out = append(out, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateSponsor(ctx context.Context, sp *models.Sponsor) error {
	query := `
		INSERT INTO sponsors (id, name, logo_url, website_url, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, sp.ID, sp.Name, nullString(sp.LogoURL), nullString(sp.WebsiteURL), sp.DisplayOrder); err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSponsor(ctx context.Context, sp *models.Sponsor) (*models.Sponsor, error) {
	query := `
		UPDATE sponsors
		SET name = $2, logo_url = $3, website_url = $4, display_order = $5
		WHERE id = $1
		RETURNING id, name, logo_url, website_url, display_order
	`
	var updated models.Sponsor
	var logo, website sql.NullString
	err := s.db.QueryRowContext(ctx, query, sp.ID, sp.Name, nullString(sp.LogoURL), nullString(sp.WebsiteURL), sp.DisplayOrder).
		Scan(&updated.ID, &updated.Name, &logo, &website, &updated.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update sponsor: %w", err)
	}
	updated.LogoURL = logo.String
	updated.WebsiteURL = website.String
	return &updated, nil
}

func (s *PostgresStore) DeleteSponsor(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "sponsors", id)
}

func (s *PostgresStore) ListQnaItems(ctx context.Context) ([]*models.QnaItem, error) {
	query := `
		SELECT id, question, answer, mode, display_order
		FROM qna_items
		ORDER BY display_order ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list qna items: %w", err)
	}
	defer rows.Close()

	var out []*models.QnaItem
	for rows.Next() {
		var q models.QnaItem
		var mode sql.NullString
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &mode, &q.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan qna item: %w", err)
		}
		q.Mode = mode.String
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list qna items: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateQnaItem(ctx context.Context, q *models.QnaItem) error {
	query := `
		INSERT INTO qna_items (id, question, answer, mode, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, q.ID, q.Question, q.Answer, nullString(q.Mode), q.DisplayOrder); err != nil {
		return fmt.Errorf("create qna item: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateQnaItem(ctx context.Context, q *models.QnaItem) (*models.QnaItem, error) {
	query := `
		UPDATE qna_items
		SET question = $2, answer = $3, mode = $4, display_order = $5
		WHERE id = $1
		RETURNING id, question, answer, mode, display_order
	`
	var updated models.QnaItem
	var mode sql.NullString
	err := s.db.QueryRowContext(ctx, query, q.ID, q.Question, q.Answer, nullString(q.Mode), q.DisplayOrder).
		Scan(&updated.ID, &updated.Question, &updated.Answer, &mode, &updated.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update qna item: %w", err)
	}
	updated.Mode = mode.String
	return &updated, nil
}

func (s *PostgresStore) DeleteQnaItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "qna_items", id)
}

func (s *PostgresStore) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
