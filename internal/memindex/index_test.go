package memindex

import (
	"testing"
	"time"

	"github.com/memkeep/memkeep/internal/storagefs"
)

func newTestStore() *Store {
	return New(storagefs.InMemory())
}

func TestLoadEmptyWhenMissing(t *testing.T) {
	s := newTestStore()
	idx := s.Load()
	if len(idx.Entries) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(idx.Entries))
	}
}

func TestAddFindRemove(t *testing.T) {
	s := newTestStore()
	e := Entry{ID: "decision-x", Type: "decision", Title: "X", Created: time.Now(), Updated: time.Now()}
	if err := s.Add(e); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, ok := s.Find("decision-x")
	if !ok || got.Title != "X" {
		t.Fatalf("find failed: %+v ok=%v", got, ok)
	}

	// Add again with same id replaces, not duplicates.
	e.Title = "X2"
	if err := s.Add(e); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	idx := s.Load()
	if len(idx.Entries) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(idx.Entries))
	}

	removed, err := s.Remove("decision-x")
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	if _, ok := s.Find("decision-x"); ok {
		t.Fatal("expected entry gone after remove")
	}
	removedAgain, _ := s.Remove("decision-x")
	if removedAgain {
		t.Fatal("expected false removing an absent id")
	}
}

func TestApplyFilterSortPage(t *testing.T) {
	base := time.Now()
	entries := []Entry{
		{ID: "a", Type: "gotcha", Title: "B", Tags: []string{"auth"}, Created: base},
		{ID: "b", Type: "gotcha", Title: "A", Tags: []string{"db"}, Created: base.Add(time.Hour)},
		{ID: "c", Type: "decision", Title: "C", Tags: []string{"auth"}, Created: base.Add(2 * time.Hour)},
	}

	page, total := Apply(entries, Filter{Type: "gotcha"})
	if total != 2 || len(page) != 2 {
		t.Fatalf("expected 2 gotcha entries, got total=%d page=%d", total, len(page))
	}

	page, total = Apply(entries, Filter{Tags: []string{"auth"}})
	if total != 2 {
		t.Fatalf("expected 2 auth-tagged entries, got %d", total)
	}

	page, total = Apply(entries, Filter{SortBy: SortByCreated, Limit: 1})
	if total != 3 || len(page) != 1 || page[0].ID != "c" {
		t.Fatalf("expected newest-first page of 1 = c, got %+v total=%d", page, total)
	}
}
