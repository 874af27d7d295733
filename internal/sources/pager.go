// Package sources implements the Source Client: a paginated fetcher per
// vendor that produces a lazy, finite sequence of raw host records.
//
// Two pagination strategies are supported:
//   - skip/limit, with bounded maxima and a shrink-retry recovery on the
//     vendor's end-of-data sentinel (Qualys, CrowdStrike)
//   - opaque cursor (Tenable)
//
// Both are exposed behind the single Client interface so the pipeline
// driver never needs to know which strategy a given vendor uses.
package sources

import (
	"context"
	"time"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// Client produces a lazy sequence of raw vendor records. Fetch returns a
// receive-only channel that the caller ranges over; the channel is closed
// when pagination ends (cleanly or on unrecoverable error). Fetch errors
// are surfaced on a parallel channel rather than a return value, since the
// underlying walk is asynchronous.
type Client interface {
	// Name is the vendor source tag, e.g. "Qualys".
	Name() string
	// Fetch starts pagination and returns a channel of raw records. The
	// channel closes when the source is exhausted or ctx is done. Any
	// terminal error is sent to errs (capacity 1) before the records
	// channel closes; a clean end-of-data is not an error.
	Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error)
}

// SkipLimitPageFetcher issues one page request at (skip, limit) and returns
// the decoded records for that page. Vendor clients implement this; the pagers drive it.
type SkipLimitPageFetcher interface {
	FetchPage(ctx context.Context, skip, limit int) ([]docnode.Node, error)
}

// CursorPageFetcher issues one page request keyed by an opaque cursor and
// returns the records plus the next cursor.
type CursorPageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (records []docnode.Node, nextCursor string, err error)
}

// PagerConfig tunes the pacing and ceilings shared by both strategies.
// Defaults match original_source/src/api_clients/*: MAX_API_LIMIT=2,
// MAX_API_SKIP=6, 50ms inter-page backoff.
type PagerConfig struct {
	MaxAPILimit     int
	MaxAPISkip      int
	InterPageBackoff time.Duration
}

// DefaultPagerConfig returns the ceilings observed in the original vendor
// clients. cmd/hostfusion passes these values to every vendor client;
// internal/config has no setting that changes them.
func DefaultPagerConfig() PagerConfig {
	return PagerConfig{MaxAPILimit: 2, MaxAPISkip: 6, InterPageBackoff: 50 * time.Millisecond}
}

func sendErr(errs chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errs <- err:
	default:
	}
}

// checkpoint selects on ctx.Done() between pages (never mid-page), giving
// the caller a best-effort cancellation point without aborting an
// in-flight request.
func checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
