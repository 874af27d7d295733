package store

// PostgreSQL-backed Store. Standard library only: uses database/sql; the
// "postgres" driver is registered elsewhere at runtime via a blank import
// (cmd/hostfusion wires in github.com/lib/pq). This file never imports a
// driver package directly so the same code can run against any
// database/sql-compatible Postgres driver.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// PostgresStore implements Store over a *sql.DB holding a registered
// Postgres driver.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-opened *sql.DB. Callers are
// responsible for calling sql.Open with a Postgres-registered driver name
// (e.g. "postgres") before constructing this store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ` + tableName + ` (
  id                  BIGSERIAL PRIMARY KEY,
  primary_mac_address TEXT,
  cloud_instance_id   TEXT,
  hostname            TEXT,
  private_ip          TEXT,
  public_ip           TEXT,
  document            JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_unified_assets_mac ON ` + tableName + ` (primary_mac_address) WHERE primary_mac_address IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_unified_assets_cloud ON ` + tableName + ` (cloud_instance_id) WHERE cloud_instance_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_unified_assets_hostname ON ` + tableName + ` (hostname) WHERE hostname IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_unified_assets_private_ip ON ` + tableName + ` (private_ip) WHERE private_ip IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_unified_assets_public_ip ON ` + tableName + ` (public_ip) WHERE public_ip IS NOT NULL;`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("ensure schema: %w", err))
	}
	return nil
}

func (s *PostgresStore) FindCandidates(ctx context.Context, host *canonical.Host) ([]StoredHost, error) {
	p := promote(host)
	if p.primaryMAC == nil && p.cloudInstance == nil && p.hostname == nil {
		return nil, nil
	}

	query := `SELECT id, document FROM ` + tableName + ` WHERE
		(primary_mac_address IS NOT NULL AND primary_mac_address = $1) OR
		(cloud_instance_id IS NOT NULL AND cloud_instance_id = $2) OR
		(hostname IS NOT NULL AND hostname = $3)
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, p.primaryMAC, p.cloudInstance, p.hostname)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("find candidates: %w", err))
	}
	defer rows.Close()

	return scanStoredHosts(rows)
}

func (s *PostgresStore) Insert(ctx context.Context, host *canonical.Host) (int64, error) {
	p := promote(host)
	doc, err := encodeDoc(host)
	if err != nil {
		return 0, err
	}

	const insert = `INSERT INTO ` + tableName + `
		(primary_mac_address, cloud_instance_id, hostname, private_ip, public_ip, document)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, insert, p.primaryMAC, p.cloudInstance, p.hostname, p.privateIP, p.publicIP, doc).Scan(&id); err != nil {
		return 0, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("insert: %w", err))
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, host *canonical.Host) error {
	p := promote(host)
	doc, err := encodeDoc(host)
	if err != nil {
		return err
	}

	const update = `UPDATE ` + tableName + ` SET
		primary_mac_address = $1, cloud_instance_id = $2, hostname = $3,
		private_ip = $4, public_ip = $5, document = $6
		WHERE id = $7`

	res, err := s.db.ExecContext(ctx, update, p.primaryMAC, p.cloudInstance, p.hostname, p.privateIP, p.publicIP, doc, id)
	if err != nil {
		return apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("update: %w", err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tableName).Scan(&total); err != nil {
		return Stats{}, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("stats: %w", err))
	}
	return Stats{TotalHosts: total}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanStoredHosts(rows *sql.Rows) ([]StoredHost, error) {
	var out []StoredHost
	for rows.Next() {
		var id int64
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		h, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, StoredHost{ID: id, Host: h})
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("store: rows: %w", err))
	}
	return out, nil
}
