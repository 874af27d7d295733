// Package dedup implements the Deduplicator: candidate lookup, weighted
// scoring, merge, and upsert decision described in spec's matching
// policy, plus an append-only decision ledger and per-candidate-key
// locking for safe concurrent upserts.
package dedup

import "github.com/Ap3pp3rs94/hostfusion/internal/canonical"

// ConfidenceThreshold is the strict lower bound a candidate's score must
// exceed for upsert to merge rather than insert.
const ConfidenceThreshold = 45

// scoringRule is one additive weighted-match rule.
type scoringRule struct {
	field  string
	weight int
	get    func(*canonical.Host) *string
}

var scoringRules = []scoringRule{
	{"primary_mac_address", 50, func(h *canonical.Host) *string { return h.PrimaryMACAddress }},
	{"cloud_instance_id", 50, func(h *canonical.Host) *string { return h.CloudInstanceID }},
	{"hostname", 15, func(h *canonical.Host) *string { return h.Hostname }},
	{"private_ip", 10, func(h *canonical.Host) *string { return h.PrivateIP }},
	{"public_ip", 10, func(h *canonical.Host) *string { return h.PublicIP }},
}

// MatchBreakdown records which rules fired for one candidate, for the
// decision ledger.
type MatchBreakdown struct {
	Field  string `json:"field"`
	Weight int    `json:"weight"`
}

// score computes the additive match score between incoming and an
// existing stored host, returning the total and the list of rules that
// contributed (for the ledger's scoring breakdown).
func score(incoming, existing *canonical.Host) (int, []MatchBreakdown) {
	total := 0
	var hits []MatchBreakdown
	for _, rule := range scoringRules {
		nv := rule.get(incoming)
		ev := rule.get(existing)
		if nv != nil && ev != nil && *nv == *ev {
			total += rule.weight
			hits = append(hits, MatchBreakdown{Field: rule.field, Weight: rule.weight})
		}
	}
	return total, hits
}
