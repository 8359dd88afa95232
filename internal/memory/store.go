// Package memory implements memory CRUD (C6, spec §4.6): write, read,
// list, and delete over the frontmatter codec, slug generator, index
// store, graph store, and scope resolver, with atomic file replacement.
// Grounded on wingthing's MemoryStore (internal/memory/memory.go), which
// loaded and cached frontmatter-split files from a single directory;
// generalized here into a multi-scope store that also owns the index
// and graph side effects a plain file cache didn't need.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/memkeep/memkeep/internal/frontmatter"
	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/memerr"
	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/scope"
	"github.com/memkeep/memkeep/internal/slug"
	"github.com/memkeep/memkeep/internal/storagefs"
)

// ValidTypes enumerates the memory types allowed by the data model (spec §3).
var ValidTypes = map[string]bool{
	"decision": true, "learning": true, "artifact": true,
	"gotcha": true, "breadcrumb": true, "hub": true,
}

// ValidSeverities enumerates severities accepted for gotcha memories.
var ValidSeverities = map[string]bool{
	"critical": true, "high": true, "medium": true, "low": true,
}

// validate is a package-level singleton, per go-playground/validator's
// documented usage (it caches struct reflection internals and is safe
// for concurrent use).
var validate = validator.New()

// WriteRequest is the input to Write (spec §4.6, §7 validation). Struct
// tags enforce the schema declaratively; WriteRequest.Validate runs them
// and translates any failure into this system's error taxonomy.
type WriteRequest struct {
	ID       string // when set, updates the existing memory at this id
	Type     string `validate:"required,oneof=decision learning artifact gotcha breadcrumb hub"`
	Title    string `validate:"required"`
	Tags     []string
	Severity string `validate:"omitempty,oneof=critical high medium low"`
	Links    []string
	Source   string
	Body     string
}

// Validate checks a WriteRequest against the data model's invariants
// (spec §3): non-empty title, a recognised type, and (if present) a
// recognised severity.
func (r WriteRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return memerr.Wrap(memerr.KindValidation, err, "invalid write request")
	}
	return nil
}

// Memory is a fully resolved memory, as returned by Read.
type Memory struct {
	ID           string
	Header       frontmatter.Header
	Body         string
	Scope        scope.Scope
	RelativePath string
}

// ScopeRoot binds a scope to its filesystem and identity, so Store
// methods don't need to re-derive roots from a Resolver on every call.
type ScopeRoot struct {
	Scope scope.Scope
	FS    storagefs.FS
	// Dir is the scope's absolute directory, used only for the
	// local-scope .gitignore bookkeeping in Write.
	Dir string
}

// Store implements memory CRUD across a set of readable scopes.
type Store struct {
	roots map[scope.Scope]ScopeRoot
	// GitRootFor returns the git root containing dir, if any; injected so
	// tests don't depend on a real .git directory.
	GitRootFor func(dir string) (string, bool)
}

// New constructs a Store over the given scope roots.
func New(roots map[scope.Scope]ScopeRoot) *Store {
	return &Store{roots: roots}
}

func (s *Store) root(sc scope.Scope) (ScopeRoot, error) {
	r, ok := s.roots[sc]
	if !ok {
		return ScopeRoot{}, memerr.New(memerr.KindConfiguration, "memory: scope %q is not configured", sc)
	}
	return r, nil
}

func memoryPath(id string) string {
	return id + ".md"
}

// existingIDs returns a membership check over a scope's index ids, used
// both for slug collision resolution and as graph.KnownIDs.
func existingIDs(idx memindex.Index) map[string]bool {
	set := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		set[e.ID] = true
	}
	return set
}

// Write creates a new memory, or updates an existing one when
// req.ID is set (spec §4.6).
func (s *Store) Write(sc scope.Scope, req WriteRequest, now time.Time) (Memory, error) {
	if err := req.Validate(); err != nil {
		return Memory{}, err
	}

	root, err := s.root(sc)
	if err != nil {
		return Memory{}, err
	}

	idxStore := memindex.New(root.FS)
	idx := idxStore.Load()

	id := req.ID
	var created time.Time
	if id != "" {
		if existing, ok := idxStore.Find(id); ok {
			created = existing.Created
		} else {
			created = now
		}
	} else {
		candidate := slug.Generate(req.Title, req.Type)
		id = slug.ResolveCollision(candidate, existingIDs(idx))
		created = now
	}

	header := frontmatter.Header{
		Type:     req.Type,
		Title:    req.Title,
		Created:  created,
		Updated:  now,
		Tags:     req.Tags,
		Severity: req.Severity,
		Links:    req.Links,
		Source:   req.Source,
	}

	data, err := frontmatter.Emit(header, req.Body)
	if err != nil {
		return Memory{}, err
	}

	path := memoryPath(id)
	if err := storagefs.AtomicWrite(root.FS, path, data); err != nil {
		return Memory{}, err
	}

	entry := memindex.Entry{
		ID: id, Type: req.Type, Title: req.Title, Tags: req.Tags,
		Created: created, Updated: now, Scope: string(sc),
		RelativePath: path, Severity: req.Severity,
	}
	if err := idxStore.Add(entry); err != nil {
		return Memory{}, err
	}

	if sc == scope.Local {
		s.ensureGitignoreCoversLocal(root.Dir)
	}

	return Memory{ID: id, Header: header, Body: req.Body, Scope: sc, RelativePath: path}, nil
}

// ensureGitignoreCoversLocal appends ".claude/memory/local/" to the
// owning project's .gitignore if it's not already covered (spec §4.6).
// Failures here are non-fatal: local-scope write already succeeded.
func (s *Store) ensureGitignoreCoversLocal(localDir string) {
	if s.GitRootFor == nil {
		return
	}
	gitRoot, ok := s.GitRootFor(localDir)
	if !ok {
		return
	}
	gitignorePath := filepath.Join(gitRoot, ".gitignore")
	const entry = ".claude/memory/local/"

	existing, err := os.ReadFile(gitignorePath)
	if err == nil && strings.Contains(string(existing), entry) {
		return
	}

	var sb strings.Builder
	sb.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(entry)
	sb.WriteString("\n")
	_ = os.WriteFile(gitignorePath, []byte(sb.String()), 0o644)
}

// Read loads a memory by id from sc, preferring the index's recorded
// relative path but falling back to probing `<id>.md` directly when the
// index has no entry (spec §4.6: "the index is a hint").
func (s *Store) Read(sc scope.Scope, id string) (Memory, error) {
	root, err := s.root(sc)
	if err != nil {
		return Memory{}, err
	}

	path := memoryPath(id)
	if entry, ok := memindex.New(root.FS).Find(id); ok && entry.RelativePath != "" {
		path = entry.RelativePath
	}

	data, err := storagefs.ReadFile(root.FS, path)
	if err != nil {
		return Memory{}, memerr.Wrap(memerr.KindNotFound, err, "memory %q not found in scope %q", id, sc)
	}
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return Memory{}, err
	}
	return Memory{ID: id, Header: doc.Header, Body: doc.Body, Scope: sc, RelativePath: path}, nil
}

// ListFilter narrows and pages a multi-scope listing (spec §4.6).
type ListFilter struct {
	Type      string
	Tags      []string
	Scope     string
	SortBy    memindex.SortBy
	Ascending bool
	Limit     int
	Offset    int
	// Scopes restricts which scopes are consulted; empty means every
	// configured scope, in priority order.
	Scopes []scope.Scope
}

// List merges the readable scopes' indices, applies filters, sorts, and
// pages (spec §4.6). Returns the page and the total count before paging.
func (s *Store) List(f ListFilter, priority []scope.Scope) ([]memindex.Entry, int, error) {
	scopes := f.Scopes
	if len(scopes) == 0 {
		scopes = priority
	}

	byScope := make(map[scope.Scope][]memindex.Entry, len(scopes))
	for _, sc := range scopes {
		root, err := s.root(sc)
		if err != nil {
			continue
		}
		idx := memindex.New(root.FS).Load()
		byScope[sc] = idx.Entries
	}

	merged := scope.Merge(byScope, priority)

	page, total := memindex.Apply(merged, memindex.Filter{
		Type: f.Type, Tags: f.Tags, Scope: f.Scope,
		SortBy: f.SortBy, Ascending: f.Ascending,
		Limit: f.Limit, Offset: f.Offset,
	})
	return page, total, nil
}

// DeleteResult reports which side effects of a delete succeeded, so a
// caller can surface a structured multi-error on partial failure (spec
// §4.6: "all four side effects are attempted even if one fails").
type DeleteResult struct {
	FileRemoved      bool
	IndexRemoved     bool
	GraphCascaded    bool
	EmbeddingRemoved bool
	Errors           []error
}

// Delete removes a memory's file, index entry, graph edges, and
// embedding cache entry. It attempts every side effect even if an
// earlier one fails, and returns a combined error describing every
// failure (spec §4.6).
func (s *Store) Delete(sc scope.Scope, id string, removeEmbedding func(id string) error) (DeleteResult, error) {
	root, err := s.root(sc)
	if err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult

	path := memoryPath(id)
	if entry, ok := memindex.New(root.FS).Find(id); ok && entry.RelativePath != "" {
		path = entry.RelativePath
	}
	if !storagefs.Exists(root.FS, path) {
		return DeleteResult{}, memerr.New(memerr.KindNotFound, "memory %q not found in scope %q", id, sc)
	}

	if err := storagefs.RemoveIfExists(root.FS, path); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("remove file: %w", err))
	} else {
		result.FileRemoved = true
	}

	if _, err := memindex.New(root.FS).Remove(id); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("remove index entry: %w", err))
	} else {
		result.IndexRemoved = true
	}

	if err := graph.New(root.FS).CascadeDelete(id); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("cascade graph delete: %w", err))
	} else {
		result.GraphCascaded = true
	}

	if removeEmbedding != nil {
		if err := removeEmbedding(id); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("remove embedding: %w", err))
		} else {
			result.EmbeddingRemoved = true
		}
	} else {
		result.EmbeddingRemoved = true
	}

	if len(result.Errors) > 0 {
		return result, memerr.New(memerr.KindFilesystem, "delete %q: %d of 4 side effects failed", id, len(result.Errors))
	}
	return result, nil
}

// Rebuild reconstructs index.json for sc directly from the memory files
// on disk — the ground truth per spec §3 Ownership ("Index and graph are
// derivable caches... rebuilt from the set of memory files"). Any entry
// the old index carried for a file that's gone is dropped; any file the
// old index never recorded (spec §8 Atomicity: a crash between the file
// write and the index update) is picked back up. A memory file that
// fails to parse is skipped rather than aborting the whole rebuild,
// matching how Load already degrades past a single bad record.
func (s *Store) Rebuild(sc scope.Scope) (memindex.Index, error) {
	root, err := s.root(sc)
	if err != nil {
		return memindex.Index{}, err
	}

	names, err := storagefs.ListFiles(root.FS, ".md")
	if err != nil {
		return memindex.Index{}, err
	}

	var idx memindex.Index
	for _, name := range names {
		data, readErr := storagefs.ReadFile(root.FS, name)
		if readErr != nil {
			continue
		}
		doc, parseErr := frontmatter.Parse(data)
		if parseErr != nil {
			continue
		}
		idx.Entries = append(idx.Entries, memindex.Entry{
			ID:           strings.TrimSuffix(name, ".md"),
			Type:         doc.Header.Type,
			Title:        doc.Header.Title,
			Tags:         doc.Header.Tags,
			Created:      doc.Header.Created,
			Updated:      doc.Header.Updated,
			Scope:        string(sc),
			RelativePath: name,
			Severity:     doc.Header.Severity,
		})
	}

	if err := memindex.New(root.FS).Save(idx); err != nil {
		return memindex.Index{}, err
	}
	return idx, nil
}
