package siteconfig

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists the singleton config row. The primary key is pinned
// to SingletonID, so concurrent lazy creations collapse into one row at the
// storage layer.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOrCreate(ctx context.Context) (*Config, error) {
	query := `
		INSERT INTO site_config (id, mode, max_quota_software, max_quota_network, max_quota_multimedia)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			id = EXCLUDED.id
		RETURNING mode, max_quota_software, max_quota_network, max_quota_multimedia
	`
	def := DefaultConfig()
	cfg, err := scanConfig(s.db.QueryRowContext(ctx, query,
		SingletonID, def.Mode, def.MaxQuotaSoftware, def.MaxQuotaNetwork, def.MaxQuotaMultimedia))
	if err != nil {
		return nil, fmt.Errorf("get or create site config: %w", err)
	}
	return cfg, nil
}

func (s *PostgresStore) SetMode(ctx context.Context, mode Mode) (*Config, error) {
	query := `
		INSERT INTO site_config (id, mode, max_quota_software, max_quota_network, max_quota_multimedia)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			mode = EXCLUDED.mode
		RETURNING mode, max_quota_software, max_quota_network, max_quota_multimedia
	`
	def := DefaultConfig()
	cfg, err := scanConfig(s.db.QueryRowContext(ctx, query,
		SingletonID, mode, def.MaxQuotaSoftware, def.MaxQuotaNetwork, def.MaxQuotaMultimedia))
	if err != nil {
		return nil, fmt.Errorf("set site config mode: %w", err)
	}
	return cfg, nil
}

func (s *PostgresStore) SetQuotas(ctx context.Context, software, network, multimedia int) (*Config, error) {
	query := `
		INSERT INTO site_config (id, mode, max_quota_software, max_quota_network, max_quota_multimedia)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			max_quota_software = EXCLUDED.max_quota_software,
			max_quota_network = EXCLUDED.max_quota_network,
			max_quota_multimedia = EXCLUDED.max_quota_multimedia
		RETURNING mode, max_quota_software, max_quota_network, max_quota_multimedia
	`
	cfg, err := scanConfig(s.db.QueryRowContext(ctx, query,
		SingletonID, DefaultMode, software, network, multimedia))
	if err != nil {
		return nil, fmt.Errorf("set site config quotas: %w", err)
	}
	return cfg, nil
}

type configRow interface {
	Scan(dest ...any) error
}

func scanConfig(row configRow) (*Config, error) {
	var cfg Config
	if err := row.Scan(&cfg.Mode, &cfg.MaxQuotaSoftware, &cfg.MaxQuotaNetwork, &cfg.MaxQuotaMultimedia); err != nil {
		return nil, err
	}
	return &cfg, nil
}
