package store

// SQLite-backed Store, for local development and the recruiting-grade
// single-node deployment. Standard library only: the driver
// (github.com/mattn/go-sqlite3) is registered elsewhere at runtime via a
// blank import, same pattern as PostgresStore.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// SQLiteStore implements Store over a *sql.DB holding a registered SQLite
// driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-opened *sql.DB. Callers are responsible
// for calling sql.Open with the "sqlite3" driver name before constructing
// this store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ` + tableName + ` (
  id                  INTEGER PRIMARY KEY AUTOINCREMENT,
  primary_mac_address TEXT,
  cloud_instance_id   TEXT,
  hostname            TEXT,
  private_ip          TEXT,
  public_ip           TEXT,
  document            TEXT NOT NULL
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

func (s *SQLiteStore) FindCandidates(ctx context.Context, host *canonical.Host) ([]StoredHost, error) {
	p := promote(host)
	if p.primaryMAC == nil && p.cloudInstance == nil && p.hostname == nil {
		return nil, nil
	}

	query := `SELECT id, document FROM ` + tableName + ` WHERE
		(primary_mac_address IS NOT NULL AND primary_mac_address = ?) OR
		(cloud_instance_id IS NOT NULL AND cloud_instance_id = ?) OR
		(hostname IS NOT NULL AND hostname = ?)
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, p.primaryMAC, p.cloudInstance, p.hostname)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("find candidates: %w", err))
	}
	defer rows.Close()

	return scanStoredHosts(rows)
}

func (s *SQLiteStore) Insert(ctx context.Context, host *canonical.Host) (int64, error) {
	p := promote(host)
	doc, err := encodeDoc(host)
	if err != nil {
		return 0, err
	}

	const insert = `INSERT INTO ` + tableName + `
		(primary_mac_address, cloud_instance_id, hostname, private_ip, public_ip, document)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, insert, p.primaryMAC, p.cloudInstance, p.hostname, p.privateIP, p.publicIP, doc)
	if err != nil {
		return 0, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("insert: %w", err))
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, host *canonical.Host) error {
	p := promote(host)
	doc, err := encodeDoc(host)
	if err != nil {
		return err
	}

	const update = `UPDATE ` + tableName + ` SET
		primary_mac_address = ?, cloud_instance_id = ?, hostname = ?,
		private_ip = ?, public_ip = ?, document = ?
		WHERE id = ?`

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

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tableName).Scan(&total); err != nil {
		return Stats{}, apierrors.Wrap(apierrors.StoreUnavailable, fmt.Errorf("stats: %w", err))
	}
	return Stats{TotalHosts: total}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
