// Package store persists Unified Host records in the "unified_assets"
// collection of the "asset_inventory" database (§6), backed by either
// PostgreSQL or SQLite via database/sql. Both backends share the same
// logical schema: a JSON document column holding the full canonical.Host
// plus promoted, indexed columns for the five fields the deduplicator
// queries on.
package store

import (
	"context"
	"errors"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
)

// ErrNotFound indicates no stored record with the given id exists.
var ErrNotFound = errors.New("store: not found")

// StoredHost pairs a persisted Host with its store-assigned primary key.
type StoredHost struct {
	ID   int64
	Host *canonical.Host
}

// Store is the persistence contract the deduplicator depends on: atomic
// upsert-by-primary-key is expressed as separate Insert/Update because the
// deduplicator itself decides, via scoring, whether a given upsert is an
// insert or a merge into a specific candidate (§4.3).
type Store interface {
	// EnsureSchema creates the backing table and indexes if they do not
	// already exist. Idempotent.
	EnsureSchema(ctx context.Context) error

	// FindCandidates returns every stored record sharing at least one
	// non-null value with host across primary_mac_address,
	// cloud_instance_id, or hostname (the disjunctive query §4.3
	// requires). Returns an empty slice, not an error, when host carries
	// none of those three fields.
	FindCandidates(ctx context.Context, host *canonical.Host) ([]StoredHost, error)

	// Insert persists host as a brand new record and returns its
	// assigned id.
	Insert(ctx context.Context, host *canonical.Host) (int64, error)

	// Update replaces the stored record at id with host in full. The
	// deduplicator computes the merged host; Update performs no merge
	// logic of its own.
	Update(ctx context.Context, id int64, host *canonical.Host) error

	// Stats returns operational counters for the admin HTTP surface.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the underlying connection pool.
	Close() error
}

// Stats summarizes store contents for /stats.
type Stats struct {
	TotalHosts int64
}
