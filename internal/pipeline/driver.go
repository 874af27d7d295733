// Package pipeline orchestrates the full ingest cycle: for each configured
// source, pull every page of raw records, normalize each into a canonical
// Host, and upsert it through the deduplicator. Sources run concurrently;
// a single bad record never aborts its source's run, and one source's
// failure never blocks another's.
package pipeline

import (
	"context"

	"github.com/Ap3pp3rs94/hostfusion/internal/dedup"
	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
	"github.com/Ap3pp3rs94/hostfusion/internal/normalize"
	"github.com/Ap3pp3rs94/hostfusion/internal/sources"
	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
	"github.com/Ap3pp3rs94/hostfusion/pkg/telemetry"
)

// SourceConfig pairs a vendor name with the client that fetches its raw
// records. Name must match the vendor tag normalize.Normalize dispatches
// on ("Qualys", "CrowdStrike", "Tenable").
type SourceConfig struct {
	Name   string
	Client sources.Client
}

// sourceResult summarizes one source's run for the admin stats surface.
type sourceResult struct {
	Source      string
	Fetched     int
	Normalized  int
	Upserted    int
	Inserted    int
	Merged      int
	SkippedNull int
	Err         error
}

// Result is the outcome of one full pipeline run: one entry per configured
// source, in the order they were configured.
type Result struct {
	Sources []sourceResult
}

// Driver runs the ingest cycle against a fixed set of sources, a shared
// deduplicator, and a logger.
type Driver struct {
	sourcesCfg  []SourceConfig
	dedup       *dedup.Deduplicator
	logger      *telemetry.Logger
	concurrency int
}

func New(cfgs []SourceConfig, d *dedup.Deduplicator, logger *telemetry.Logger, concurrency int) *Driver {
	if logger == nil {
		logger = telemetry.Nop
	}
	return &Driver{sourcesCfg: cfgs, dedup: d, logger: logger, concurrency: concurrency}
}

// Run executes one full ingest cycle across all configured sources and
// returns a per-source summary. It returns an error only if ctx is
// cancelled before any source could run; individual source failures are
// recorded in the per-source result, not returned here.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	jobs := make([]sourceJob, len(d.sourcesCfg))
	for i, cfg := range d.sourcesCfg {
		cfg := cfg
		jobs[i] = func(ctx context.Context) sourceResult {
			return d.processSource(ctx, cfg)
		}
	}

	results := runAll(ctx, d.concurrency, jobs)
	return Result{Sources: results}, nil
}

func (d *Driver) processSource(ctx context.Context, cfg SourceConfig) sourceResult {
	res := sourceResult{Source: cfg.Name}
	d.logger.Info(ctx, "source_start", map[string]any{"source": cfg.Name})

	records, errs := cfg.Client.Fetch(ctx)

	// errs is an unclosed, capacity-1 channel: a terminal error (if any) is
	// always sent before records closes, so draining it once records is
	// exhausted is enough — no need to keep selecting on both forever.
loop:
	for {
		select {
		case raw, ok := <-records:
			if !ok {
				break loop
			}
			res.Fetched++
			d.ingestOne(ctx, cfg.Name, raw, &res)
		case err := <-errs:
			if err != nil {
				res.Err = err
				d.logSourceError(ctx, "source_error", cfg.Name, err)
			}
		}
	}

	select {
	case err := <-errs:
		if err != nil {
			res.Err = err
			d.logSourceError(ctx, "source_error", cfg.Name, err)
		}
	default:
	}

	d.logger.Info(ctx, "source_finish", map[string]any{
		"source":     cfg.Name,
		"fetched":    res.Fetched,
		"normalized": res.Normalized,
		"upserted":   res.Upserted,
		"inserted":   res.Inserted,
		"merged":     res.Merged,
	})
	return res
}

// logSourceError records a source-level failure along with the stable
// error code and retry metadata from pkg/errors, so an operator reading
// the log can tell a transient dependency failure (retryable, worth
// rerunning this source) from a client-side rejection (not) without
// parsing the message text.
func (d *Driver) logSourceError(ctx context.Context, event, source string, err error) {
	code := apierrors.CodeOf(err)
	fields := map[string]any{
		"source": source,
		"error":  err.Error(),
		"code":   string(code),
	}
	if meta, ok := apierrors.Meta(code); ok {
		fields["retryable"] = meta.Retryable
		fields["kind"] = meta.Kind
	}
	d.logger.Error(ctx, event, fields)
}

// ingestOne normalizes one raw record and upserts it, logging and
// continuing rather than aborting the source's run on any failure —
// one malformed record must never take down an entire vendor's sync.
func (d *Driver) ingestOne(ctx context.Context, source string, raw docnode.Node, res *sourceResult) {
	host := normalize.Normalize(raw, source)
	if host == nil {
		res.SkippedNull++
		return
	}
	res.Normalized++

	result, err := d.dedup.Upsert(ctx, host)
	if err != nil {
		d.logSourceError(ctx, "upsert_error", source, err)
		return
	}

	res.Upserted++
	switch result.Outcome {
	case "insert":
		res.Inserted++
	case "merge":
		res.Merged++
	}
}
