package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ap3pp3rs94/hostfusion/internal/dedup"
	"github.com/Ap3pp3rs94/hostfusion/internal/store"
)

func TestHandleHealthzReportsStoreStats(t *testing.T) {
	s := store.NewMemoryStore()
	ledger := dedup.NewLedger()
	h := &handlers{store: s, ledger: ledger}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.handleHealthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("expected healthy status, got %+v", body)
	}
}

func TestHandleStatsIncludesLedgerAndRunStats(t *testing.T) {
	s := store.NewMemoryStore()
	ledger := dedup.NewLedger()
	ran := false
	h := &handlers{
		store:  s,
		ledger: ledger,
		runStats: func() map[string]any {
			ran = true
			return map[string]any{"fetched": 3}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.handleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ran {
		t.Fatalf("expected runStats to be invoked")
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["last_run"]; !ok {
		t.Fatalf("expected last_run in response, got %+v", body)
	}
}

func TestHandleHealthzUnhealthyOnStoreError(t *testing.T) {
	h := &handlers{store: failingStore{}, ledger: dedup.NewLedger()}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.handleHealthz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

type failingStore struct{ store.Store }

func (failingStore) Stats(ctx context.Context) (store.Stats, error) {
	return store.Stats{}, context.DeadlineExceeded
}
