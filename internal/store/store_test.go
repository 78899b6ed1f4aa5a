package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region helpers
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "phi.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeResult() phi.Result {
	mip := partition.Bipartition{A: subset.Of(0), B: subset.Of(1, 2), Kind: partition.Unidirectional}
	return phi.Result{
		Phi:             0.25,
		MIP:             &mip,
		Scores:          []phi.PartitionScore{{Partition: mip, Phi: 0.25}},
		Method:          phi.Exact,
		PartitionsTried: 6,
		Elapsed:         3 * time.Millisecond,
	}
}

// #endregion helpers

func TestSaveAndGet(t *testing.T) {
	s := setupStore(t)
	rec, err := NewRecord("classical", "abc", 3, makeResult())
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(rec.ResultID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phi != 0.25 || got.Method != "exact" || got.NElements != 3 || got.PartitionsTried != 6 {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.MIP != "{0} => {1,2}" {
		t.Fatalf("unexpected MIP %q", got.MIP)
	}
	if got.Elapsed != 3*time.Millisecond {
		t.Fatalf("unexpected elapsed %s", got.Elapsed)
	}
	if !strings.Contains(got.ScoresJSON, `"phi":0.25`) {
		t.Fatalf("unexpected scores %s", got.ScoresJSON)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("created_at %s, want %s", got.CreatedAt, rec.CreatedAt)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := setupStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSave_NoMIP(t *testing.T) {
	s := setupStore(t)
	rec, err := NewRecord("quantum", "q1", 1, phi.Result{Method: phi.Quantum})
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(rec.ResultID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MIP != "" || got.ScoresJSON != "" {
		t.Fatalf("expected empty MIP and scores, got %+v", got)
	}
}

func TestListAndListByDigest(t *testing.T) {
	s := setupStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, digest := range []string{"a", "b", "a"} {
		rec, err := NewRecord("classical", digest, 2, makeResult())
		if err != nil {
			t.Fatalf("new record: %v", err)
		}
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Save(rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := s.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].SystemDigest != "a" || all[1].SystemDigest != "b" {
		t.Fatalf("unexpected newest-first listing %+v", all)
	}

	byA, err := s.ListByDigest("a")
	if err != nil {
		t.Fatalf("list by digest: %v", err)
	}
	if len(byA) != 2 || !byA[0].CreatedAt.After(byA[1].CreatedAt) {
		t.Fatalf("expected 2 results for digest a newest first, got %+v", byA)
	}
	if none, _ := s.ListByDigest("zzz"); len(none) != 0 {
		t.Fatalf("expected no results, got %d", len(none))
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	rec, _ := NewRecord("classical", "m", 2, makeResult())
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Get(rec.ResultID); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "deep", "phi.db")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestSave_DuplicateID(t *testing.T) {
	s := setupStore(t)
	rec, _ := NewRecord("classical", "a", 2, makeResult())
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(rec); err == nil {
		t.Fatal("expected primary key violation")
	}
}
