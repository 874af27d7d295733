package store

import (
	"context"
	"sync"

	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
)

// MemoryStore is a dependency-free Store backed by a protected map, used
// by package tests and as the zero-configuration default when no
// database connection string is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*canonical.Host
	order  []int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[int64]*canonical.Host{}}
}

func (s *MemoryStore) EnsureSchema(ctx context.Context) error { return nil }

func (s *MemoryStore) FindCandidates(ctx context.Context, host *canonical.Host) ([]StoredHost, error) {
	p := promote(host)
	if p.primaryMAC == nil && p.cloudInstance == nil && p.hostname == nil {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []StoredHost
	for _, id := range s.order {
		h := s.rows[id]
		if matches(p.primaryMAC, h.PrimaryMACAddress) ||
			matches(p.cloudInstance, h.CloudInstanceID) ||
			matches(p.hostname, h.Hostname) {
			out = append(out, StoredHost{ID: id, Host: cloneHost(h)})
		}
	}
	return out, nil
}

func matches(want, have *string) bool {
	return want != nil && have != nil && *want == *have
}

func (s *MemoryStore) Insert(ctx context.Context, host *canonical.Host) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.rows[id] = cloneHost(host)
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, host *canonical.Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	s.rows[id] = cloneHost(host)
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{TotalHosts: int64(len(s.rows))}, nil
}

func (s *MemoryStore) Close() error { return nil }

// cloneHost round-trips through JSON so callers never observe mutation of
// a stored record via a returned pointer, matching the isolation a real
// document store gives for free.
func cloneHost(h *canonical.Host) *canonical.Host {
	doc, err := encodeDoc(h)
	if err != nil {
		return h
	}
	clone, err := decodeDoc(doc)
	if err != nil {
		return h
	}
	return clone
}
