// Package memindex implements the per-scope index store (spec §3, §4.3):
// a persistent summary of every memory in a scope, used as a read hint
// only — never trusted for presence without rechecking the underlying
// file.
package memindex

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/memkeep/memkeep/internal/memerr"
	"github.com/memkeep/memkeep/internal/storagefs"
)

const indexFileName = "index.json"
const schemaVersion = "1.0.0"

// Entry summarizes one memory for fast listing (spec §3).
type Entry struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Scope        string    `json:"scope"`
	RelativePath string    `json:"relativePath"`
	Severity     string    `json:"severity,omitempty"`
}

// Index is the on-disk shape of index.json.
type Index struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Entries     []Entry `json:"entries"`
}

// Store manages index.json for a single scope root.
type Store struct {
	fs storagefs.FS
}

// New returns a Store backed by fs (the scope root's filesystem).
func New(fs storagefs.FS) *Store {
	return &Store{fs: fs}
}

// Load returns the index, or an empty one if the file is absent or
// corrupt — load never raises (spec §4.3).
func (s *Store) Load() Index {
	data, err := storagefs.ReadFile(s.fs, indexFileName)
	if err != nil {
		return Index{Version: schemaVersion}
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{Version: schemaVersion}
	}
	return idx
}

// Save atomically replaces index.json and stamps LastUpdated.
func (s *Store) Save(idx Index) error {
	idx.Version = schemaVersion
	idx.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return memerr.Wrap(memerr.KindInternal, err, "marshal index")
	}
	return storagefs.AtomicWrite(s.fs, indexFileName, data)
}

// Add replaces any existing entry with the same id, then persists.
func (s *Store) Add(entry Entry) error {
	idx := s.Load()
	replaced := false
	for i, e := range idx.Entries {
		if e.ID == entry.ID {
			idx.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Entries = append(idx.Entries, entry)
	}
	return s.Save(idx)
}

// Remove deletes the entry with id, returning true iff one was removed.
func (s *Store) Remove(id string) (bool, error) {
	idx := s.Load()
	for i, e := range idx.Entries {
		if e.ID == id {
			idx.Entries = append(idx.Entries[:i], idx.Entries[i+1:]...)
			return true, s.Save(idx)
		}
	}
	return false, nil
}

// Find returns the entry for id, if present.
func (s *Store) Find(id string) (Entry, bool) {
	idx := s.Load()
	for _, e := range idx.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// SortBy is a field to sort list results on.
type SortBy string

const (
	SortByCreated SortBy = "created"
	SortByUpdated SortBy = "updated"
	SortByTitle   SortBy = "title"
)

// Filter narrows and pages a list of entries (spec §4.6 list).
type Filter struct {
	Type      string
	Tags      []string
	Scope     string
	SortBy    SortBy
	Ascending bool
	Limit     int
	Offset    int
}

// Apply filters, sorts, and pages entries, returning the page and the
// total count before paging.
func Apply(entries []Entry, f Filter) (page []Entry, total int) {
	var filtered []Entry
	for _, e := range entries {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Scope != "" && e.Scope != f.Scope {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(e.Tags, f.Tags) {
			continue
		}
		filtered = append(filtered, e)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortByCreated
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		switch sortBy {
		case SortByTitle:
			return filtered[i].Title < filtered[j].Title
		case SortByUpdated:
			return filtered[i].Updated.Before(filtered[j].Updated)
		default:
			return filtered[i].Created.Before(filtered[j].Created)
		}
	})
	if !f.Ascending {
		reverse(filtered)
	}

	total = len(filtered)

	start := f.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return filtered[start:end], total
}

func hasAnyTag(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

func reverse(e []Entry) {
	for i, j := 0, len(e)-1; i < j; i, j = i+1, j-1 {
		e[i], e[j] = e[j], e[i]
	}
}
