package dedup

import (
	"hash/fnv"
	"sync"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
)

// stripeCount bounds the number of mutexes the striped lock allocates.
// Concurrent sources in this system number in the single digits, so a
// small fixed stripe count gives ample parallelism without per-key
// allocation.
const stripeCount = 64

// stripedLock serializes Upsert calls whose incoming hosts could
// plausibly collide in FindCandidates: two upserts keyed to the same
// stripe take the same mutex; unrelated hosts proceed in parallel. This
// is the "per-candidate-key mutual exclusion" concurrency option.
type stripedLock struct {
	stripes [stripeCount]sync.Mutex
}

func newStripedLock() *stripedLock {
	return &stripedLock{}
}

// candidateKey is the union of the non-null primary_mac_address,
// cloud_instance_id, and hostname — the same three fields
// FindCandidates queries on — joined so any one shared value routes two
// hosts to the same stripe.
func candidateKey(h *canonical.Host) string {
	key := ""
	if h.PrimaryMACAddress != nil {
		key += "mac:" + *h.PrimaryMACAddress + "|"
	}
	if h.CloudInstanceID != nil {
		key += "cloud:" + *h.CloudInstanceID + "|"
	}
	if h.Hostname != nil {
		key += "host:" + *h.Hostname + "|"
	}
	return key
}

func (s *stripedLock) lockFor(h *canonical.Host) *sync.Mutex {
	key := candidateKey(h)
	if key == "" {
		// No matching keys means this upsert can never collide with
		// another on FindCandidates; route it to a fixed stripe rather
		// than skipping locking, so store writes from concurrent
		// force-insert-path hosts still serialize with each other.
		return &s.stripes[0]
	}
	h64 := fnv.New64a()
	_, _ = h64.Write([]byte(key))
	idx := h64.Sum64() % stripeCount
	return &s.stripes[idx]
}
