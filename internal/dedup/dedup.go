package dedup

import (
	"context"
	"fmt"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	"github.com/Ap3pp3rs94/hostfusion/internal/store"
)

// Deduplicator ties together candidate lookup, scoring, merge, and ledger
// recording into a single Upsert operation, serializing concurrent
// upserts that could plausibly collide via a striped lock.
type Deduplicator struct {
	store  store.Store
	ledger *Ledger
	locks  *stripedLock
}

func New(s store.Store, ledger *Ledger) *Deduplicator {
	return &Deduplicator{
		store:  s,
		ledger: ledger,
		locks:  newStripedLock(),
	}
}

// UpsertResult reports what Upsert did for one incoming host.
type UpsertResult struct {
	ID      int64
	Outcome string // "insert" or "merge"
}

// Upsert finds every candidate sharing a key with incoming, scores each,
// and either merges incoming into the strictly-highest-scoring candidate
// (when its score exceeds ConfidenceThreshold) or inserts incoming as a
// new record. The decision, with its full scoring breakdown, is appended
// to the ledger regardless of outcome.
func (d *Deduplicator) Upsert(ctx context.Context, incoming *canonical.Host) (UpsertResult, error) {
	mu := d.locks.lockFor(incoming)
	mu.Lock()
	defer mu.Unlock()

	candidates, err := d.store.FindCandidates(ctx, incoming)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("dedup: find candidates: %w", err)
	}

	var (
		scores  = make([]CandidateScore, 0, len(candidates))
		best    *store.StoredHost
		bestIdx = -1
	)
	for i, cand := range candidates {
		s, hits := score(incoming, cand.Host)
		scores = append(scores, CandidateScore{CandidateID: cand.ID, Score: s, Matches: hits})
		if bestIdx == -1 || s > scores[bestIdx].Score {
			best = &candidates[i]
			bestIdx = i
		}
	}

	decision := Decision{
		IncomingSource: incoming.SourceTag(),
		Candidates:     scores,
	}

	if best != nil && scores[bestIdx].Score > ConfidenceThreshold {
		merge(best.Host, incoming)
		if err := d.store.Update(ctx, best.ID, best.Host); err != nil {
			return UpsertResult{}, fmt.Errorf("dedup: update %d: %w", best.ID, err)
		}
		decision.Outcome = "merge"
		decision.MergedIntoID = best.ID
		d.ledger.append(decision)
		return UpsertResult{ID: best.ID, Outcome: "merge"}, nil
	}

	id, err := d.store.Insert(ctx, incoming)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("dedup: insert: %w", err)
	}
	decision.Outcome = "insert"
	d.ledger.append(decision)
	return UpsertResult{ID: id, Outcome: "insert"}, nil
}
