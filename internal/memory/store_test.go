package memory

import (
	"testing"
	"time"

	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/scope"
	"github.com/memkeep/memkeep/internal/storagefs"
)

func newTestStore() *Store {
	roots := map[scope.Scope]ScopeRoot{
		scope.Project: {Scope: scope.Project, FS: storagefs.InMemory(), Dir: "/repo/.claude/memory"},
		scope.Local:   {Scope: scope.Local, FS: storagefs.InMemory(), Dir: "/repo/.claude/memory/local"},
		scope.Global:  {Scope: scope.Global, FS: storagefs.InMemory(), Dir: "/home/u/.memkeep"},
	}
	return New(roots)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	s := newTestStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mem, err := s.Write(scope.Project, WriteRequest{
		Type: "gotcha", Title: "Watch for nil pointer", Tags: []string{"go"}, Body: "Careful here.",
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := s.Read(scope.Project, mem.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Header.Title != "Watch for nil pointer" || got.Body != "Careful here." {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestWriteRejectsInvalidRequest(t *testing.T) {
	s := newTestStore()
	_, err := s.Write(scope.Project, WriteRequest{Type: "bogus", Title: "x"}, time.Now())
	if err == nil {
		t.Fatal("expected validation error for unknown type")
	}
}

func TestWriteUpdatePreservesCreatedTimestamp(t *testing.T) {
	s := newTestStore()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	first, err := s.Write(scope.Project, WriteRequest{Type: "decision", Title: "Pick Go"}, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := s.Write(scope.Project, WriteRequest{ID: first.ID, Type: "decision", Title: "Pick Go"}, t1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Header.Created.Equal(t0) {
		t.Fatalf("expected created to be preserved as %v, got %v", t0, second.Header.Created)
	}
	if !second.Header.Updated.Equal(t1) {
		t.Fatalf("expected updated to advance to %v, got %v", t1, second.Header.Updated)
	}
}

func TestReadMissingMemoryReturnsNotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.Read(scope.Project, "gotcha-does-not-exist")
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestListMergesScopesWithPriority(t *testing.T) {
	s := newTestStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Write(scope.Project, WriteRequest{Type: "decision", Title: "Project decision"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.Write(scope.Global, WriteRequest{Type: "learning", Title: "Global learning"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, total, err := s.List(ListFilter{SortBy: memindex.SortByTitle, Ascending: true}, []scope.Scope{scope.Local, scope.Project, scope.Global})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(page) != 2 {
		t.Fatalf("expected 2 merged entries, got total=%d page=%d", total, len(page))
	}
}

func TestDeleteRemovesFileIndexAndGraph(t *testing.T) {
	s := newTestStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mem, err := s.Write(scope.Project, WriteRequest{Type: "gotcha", Title: "Will be deleted"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := s.Delete(scope.Project, mem.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FileRemoved || !result.IndexRemoved || !result.GraphCascaded {
		t.Fatalf("expected all side effects to succeed: %+v", result)
	}

	if _, err := s.Read(scope.Project, mem.ID); err == nil {
		t.Fatal("expected memory to be gone after delete")
	}
}

func TestDeleteMissingMemoryReturnsNotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.Delete(scope.Project, "gotcha-missing", nil)
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestRebuildRediscoversFileMissingFromIndex(t *testing.T) {
	s := newTestStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mem, err := s.Write(scope.Project, WriteRequest{Type: "decision", Title: "Crashed before indexing"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a crash between the file write and the index update (spec
	// §8 Atomicity): the index never learns about mem.ID.
	root := s.roots[scope.Project]
	if err := memindex.New(root.FS).Save(memindex.Index{}); err != nil {
		t.Fatalf("reset index: %v", err)
	}
	if _, err := s.Read(scope.Project, mem.ID); err != nil {
		t.Fatalf("file should still be readable from disk: %v", err)
	}

	idx, err := s.Rebuild(scope.Project)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	found := false
	for _, e := range idx.Entries {
		if e.ID == mem.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rebuild to rediscover %s from disk, got %+v", mem.ID, idx.Entries)
	}
}

func TestRebuildDropsEntriesForDeletedFiles(t *testing.T) {
	s := newTestStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mem, err := s.Write(scope.Project, WriteRequest{Type: "decision", Title: "Stale entry"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := s.roots[scope.Project]
	if err := storagefs.RemoveIfExists(root.FS, mem.ID+".md"); err != nil {
		t.Fatalf("remove memory file: %v", err)
	}

	idx, err := s.Rebuild(scope.Project)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	for _, e := range idx.Entries {
		if e.ID == mem.ID {
			t.Fatalf("expected stale entry for deleted file to be dropped, got %+v", idx.Entries)
		}
	}
}
