package dedup

import (
	"sync"
	"time"
)

// Decision is one append-only ledger entry: the outcome of a single
// Upsert call, including the per-candidate scoring breakdown so the
// "why did this merge/insert happen" question is always answerable after
// the fact.
type Decision struct {
	TS             string           `json:"ts"`
	IncomingSource string           `json:"incoming_source"`
	Candidates     []CandidateScore `json:"candidates"`
	Outcome        string           `json:"outcome"` // "insert" or "merge"
	MergedIntoID   int64            `json:"merged_into_id,omitempty"`
}

// CandidateScore records one candidate considered during a single Upsert
// call: its store id, total score, and which rules matched.
type CandidateScore struct {
	CandidateID int64             `json:"candidate_id"`
	Score       int               `json:"score"`
	Matches     []MatchBreakdown  `json:"matches"`
}

// Ledger is an append-only, in-memory record of every Upsert decision.
// It holds no tenant scoping (this system has no cross-tenant concept);
// unlike a durable audit trail it is process-lifetime only, which is
// sufficient for the operational visibility the admin HTTP surface
// exposes.
type Ledger struct {
	mu      sync.Mutex
	entries []Decision
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) append(d Decision) {
	d.TS = time.Now().UTC().Format(time.RFC3339Nano)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, d)
}

// Recent returns up to n of the most recently appended decisions, newest
// last (matching append order).
func (l *Ledger) Recent(n int) []Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	start := len(l.entries) - n
	out := make([]Decision, n)
	copy(out, l.entries[start:])
	return out
}

// Len reports the total number of decisions recorded.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
