package sources

import (
	"context"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// SkipLimitPager implements the skip/limit pagination strategy shared by
// Qualys and CrowdStrike: fixed page size, monotonically increasing skip,
// a documented skip ceiling, and a shrink-retry recovery when the vendor
// signals end-of-data mid-sequence (original_source/src/api_clients/base_client.py
// fetch_all_hosts).
type SkipLimitPager struct {
	name    string
	fetcher SkipLimitPageFetcher
	cfg     PagerConfig
}

// NewSkipLimitPager builds a pager over fetcher using cfg's ceilings.
func NewSkipLimitPager(name string, fetcher SkipLimitPageFetcher, cfg PagerConfig) *SkipLimitPager {
	return &SkipLimitPager{name: name, fetcher: fetcher, cfg: cfg}
}

func (p *SkipLimitPager) Name() string { return p.name }

func (p *SkipLimitPager) Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error) {
	records := make(chan docnode.Node)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		limit := p.cfg.MaxAPILimit
		if limit < 1 {
			limit = 1
		}
		skip := 0

		for {
			if skip > p.cfg.MaxAPISkip {
				return
			}
			if err := checkpoint(ctx); err != nil {
				sendErr(errs, err)
				return
			}

			batch, err := p.fetcher.FetchPage(ctx, skip, limit)
			if err != nil {
				if isEndOfDataErr(err) {
					if p.retryWithShrinkingLimit(ctx, records, skip, limit) {
						// a shrunk retry that found data emits exactly one
						// page and then the source is exhausted.
						return
					}
					return
				}
				// any other error (transport, constraint) halts this
				// source; it is not fed into the pipeline as a host.
				sendErr(errs, err)
				return
			}

			if len(batch) == 0 {
				return
			}
			if !emitAll(ctx, records, batch) {
				return
			}

			skip += limit
			if err := sleepOrDone(ctx, p.cfg.InterPageBackoff); err != nil {
				return
			}
		}
	}()

	return records, errs
}

// retryWithShrinkingLimit mirrors the original's retry loop: on
// end-of-data at (skip, limit), retry at the same skip with limit-1,
// limit-2, ..., 1 until one succeeds with a non-empty page (emitted, then
// the source stops) or all shrink attempts are exhausted (source stops
// with no error). Returns true if a shrunk page was emitted.
func (p *SkipLimitPager) retryWithShrinkingLimit(ctx context.Context, records chan<- docnode.Node, skip, limit int) bool {
	for retryLimit := limit - 1; retryLimit >= 1; retryLimit-- {
		if checkpoint(ctx) != nil {
			return false
		}
		batch, err := p.fetcher.FetchPage(ctx, skip, retryLimit)
		if err != nil {
			continue
		}
		if len(batch) > 0 {
			emitAll(ctx, records, batch)
			return true
		}
	}
	return false
}

func emitAll(ctx context.Context, records chan<- docnode.Node, batch []docnode.Node) bool {
	for _, r := range batch {
		select {
		case records <- r:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func isEndOfDataErr(err error) bool {
	return apierrors.CodeOf(err) == apierrors.SourceEndOfData
}
