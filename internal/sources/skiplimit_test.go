package sources

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

type fakeSkipLimitFetcher struct {
	// pages[skip][limit] -> batch, or an error if absent and endOfData set.
	pages    map[int]map[int][]docnode.Node
	endOfData map[int]bool // skip values that should return SourceEndOfData for any limit not in pages[skip]
	calls    []string
}

func (f *fakeSkipLimitFetcher) FetchPage(ctx context.Context, skip, limit int) ([]docnode.Node, error) {
	f.calls = append(f.calls, fmt.Sprintf("skip=%d,limit=%d", skip, limit))
	if byLimit, ok := f.pages[skip]; ok {
		if batch, ok := byLimit[limit]; ok {
			return batch, nil
		}
	}
	if f.endOfData[skip] {
		return nil, apierrors.Wrap(apierrors.SourceEndOfData, fmt.Errorf("end of data"))
	}
	return nil, nil
}

func node(v any) docnode.Node { return docnode.Of(v) }

func collect(t *testing.T, records <-chan docnode.Node, errs <-chan error) ([]docnode.Node, error) {
	t.Helper()
	var got []docnode.Node
	var err error
	for records != nil || errs != nil {
		select {
		case r, ok := <-records:
			if !ok {
				// errs is never closed: a terminal error, if any, was
				// sent before records closed, so one non-blocking read
				// picks it up.
				records = nil
				select {
				case e := <-errs:
					err = e
				default:
				}
				errs = nil
				continue
			}
			got = append(got, r)
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			err = e
		}
	}
	return got, err
}

func TestSkipLimitPagerNormalPagination(t *testing.T) {
	f := &fakeSkipLimitFetcher{
		pages: map[int]map[int][]docnode.Node{
			0: {2: {node("a"), node("b")}},
			2: {2: {node("c")}},
			4: {2: {}},
		},
	}
	p := NewSkipLimitPager("Test", f, PagerConfig{MaxAPILimit: 2, MaxAPISkip: 6})
	records, errs := p.Fetch(context.Background())
	got, err := collect(t, records, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestSkipLimitPagerShrinkRetryRecoversThenStops(t *testing.T) {
	// At skip=0, limit=2 returns a normal page. At skip=2, limit=2 signals
	// end-of-data; the shrink-retry should succeed at limit=1 and emit
	// that page, then the source stops (matching the original's
	// retried_successfully -> break behavior).
	f := &fakeSkipLimitFetcher{
		pages: map[int]map[int][]docnode.Node{
			0: {2: {node("a"), node("b")}},
			2: {1: {node("c")}},
		},
		endOfData: map[int]bool{2: true},
	}
	p := NewSkipLimitPager("Test", f, PagerConfig{MaxAPILimit: 2, MaxAPISkip: 6})
	records, errs := p.Fetch(context.Background())
	got, err := collect(t, records, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records (2 + 1 shrunk), got %d", len(got))
	}
}

func TestSkipLimitPagerShrinkRetryExhaustedStopsCleanly(t *testing.T) {
	f := &fakeSkipLimitFetcher{
		endOfData: map[int]bool{0: true},
	}
	p := NewSkipLimitPager("Test", f, PagerConfig{MaxAPILimit: 2, MaxAPISkip: 6})
	records, errs := p.Fetch(context.Background())
	got, err := collect(t, records, errs)
	if err != nil {
		t.Fatalf("expected no error on exhausted shrink-retry, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestSkipLimitPagerStopsAtSkipCeiling(t *testing.T) {
	f := &fakeSkipLimitFetcher{
		pages: map[int]map[int][]docnode.Node{
			0: {2: {node("a"), node("b")}},
			2: {2: {node("c"), node("d")}},
		},
	}
	// MaxAPISkip=2 means skip=4 (0+2+2) exceeds the ceiling and must not
	// be requested.
	p := NewSkipLimitPager("Test", f, PagerConfig{MaxAPILimit: 2, MaxAPISkip: 2})
	records, errs := p.Fetch(context.Background())
	got, err := collect(t, records, errs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
	for _, c := range f.calls {
		if c == "skip=4,limit=2" {
			t.Fatalf("pager requested beyond skip ceiling: %v", f.calls)
		}
	}
}

func TestSkipLimitPagerConstraintViolationStopsWithError(t *testing.T) {
	f := &fakeConstraintFetcher{}
	p := NewSkipLimitPager("Test", f, PagerConfig{MaxAPILimit: 2, MaxAPISkip: 6})
	records, errs := p.Fetch(context.Background())
	got, err := collect(t, records, errs)
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
	if apierrors.CodeOf(err) != apierrors.SourceConstraint {
		t.Fatalf("expected SourceConstraint, got %v", err)
	}
}

type fakeConstraintFetcher struct{}

func (fakeConstraintFetcher) FetchPage(ctx context.Context, skip, limit int) ([]docnode.Node, error) {
	return nil, apierrors.Wrap(apierrors.SourceConstraint, fmt.Errorf("limit too big"))
}
