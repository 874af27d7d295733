package sources

import (
	"context"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// CursorPager implements Tenable's opaque-cursor pagination strategy: each
// request carries the cursor returned by the previous one (empty string on
// the first call); termination is an empty hosts array or the vendor's
// "Invalid cursor" sentinel, both treated as clean end-of-data
// (original_source/src/api_clients/tenable_client.py fetch_all_hosts).
type CursorPager struct {
	name    string
	fetcher CursorPageFetcher
	cfg     PagerConfig
}

func NewCursorPager(name string, fetcher CursorPageFetcher, cfg PagerConfig) *CursorPager {
	return &CursorPager{name: name, fetcher: fetcher, cfg: cfg}
}

func (p *CursorPager) Name() string { return p.name }

func (p *CursorPager) Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error) {
	records := make(chan docnode.Node)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		cursor := ""

		for {
			if err := checkpoint(ctx); err != nil {
				sendErr(errs, err)
				return
			}

			batch, next, err := p.fetcher.FetchPage(ctx, cursor)
			if err != nil {
				if apierrors.CodeOf(err) == apierrors.SourceInvalidCursor {
					return
				}
				sendErr(errs, err)
				return
			}

			if len(batch) == 0 {
				return
			}
			if !emitAll(ctx, records, batch) {
				return
			}

			cursor = next
			if err := sleepOrDone(ctx, p.cfg.InterPageBackoff); err != nil {
				return
			}
		}
	}()

	return records, errs
}
