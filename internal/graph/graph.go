// Package graph implements the per-scope labelled adjacency store (spec
// §3, §4.4): bidirectional edges across memories, with consistent cleanup
// on deletion.
package graph

import (
	"encoding/json"
	"strings"

	"github.com/memkeep/memkeep/internal/memerr"
	"github.com/memkeep/memkeep/internal/storagefs"
)

const graphFileName = "graph.json"

// Edge is one labelled, directed pointer to another memory.
type Edge struct {
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Direction filters edges() by traversal direction.
type Direction int

const (
	Out Direction = iota
	In
	Both
)

// ResolvedEdge is an edge annotated with the direction it was found in,
// for callers that asked for Both.
type ResolvedEdge struct {
	Other     string
	Label     string
	Direction Direction
}

// Store manages graph.json for a single scope root: id -> []Edge.
type Store struct {
	fs storagefs.FS
}

func New(fs storagefs.FS) *Store {
	return &Store{fs: fs}
}

func (s *Store) load() map[string][]Edge {
	data, err := storagefs.ReadFile(s.fs, graphFileName)
	if err != nil {
		return map[string][]Edge{}
	}
	var g map[string][]Edge
	if err := json.Unmarshal(data, &g); err != nil {
		return map[string][]Edge{}
	}
	if g == nil {
		g = map[string][]Edge{}
	}
	return g
}

func (s *Store) save(g map[string][]Edge) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return memerr.Wrap(memerr.KindInternal, err, "marshal graph")
	}
	return storagefs.AtomicWrite(s.fs, graphFileName, data)
}

// KnownIDs is injected by the caller (C4 requires both endpoints to exist
// in some reachable index — the graph store itself owns no memory
// identity).
type KnownIDs func(id string) bool

// Link adds a forward edge a->b and its paired reverse edge b->a. Fails
// with KindValidation on a self-link, KindNotFound if either id is
// unknown, KindValidation(Duplicate) if the forward edge already exists.
func (s *Store) Link(known KnownIDs, a, b, label, reverseLabel string) error {
	if a == b {
		return memerr.New(memerr.KindValidation, "graph: self-link on %q", a)
	}
	if !known(a) {
		return memerr.New(memerr.KindNotFound, "graph: unknown memory %q", a)
	}
	if !known(b) {
		return memerr.New(memerr.KindNotFound, "graph: unknown memory %q", b)
	}

	g := s.load()
	for _, e := range g[a] {
		if e.Target == b && e.Label == label {
			return memerr.New(memerr.KindValidation, "graph: duplicate edge %s -[%s]-> %s", a, label, b)
		}
	}

	if reverseLabel == "" {
		reverseLabel = ReverseLabel(label)
	}

	g[a] = append(g[a], Edge{Target: b, Label: label})
	g[b] = append(g[b], Edge{Target: a, Label: reverseLabel})
	return s.save(g)
}

// ReverseLabel synthesises a reverse label when the caller doesn't supply
// one explicitly (spec §3, §9: never guess a grammar beyond these fixed
// pairs and the "-by" suffix convention).
func ReverseLabel(label string) string {
	switch label {
	case "part-of":
		return "contains"
	case "contains":
		return "part-of"
	case "supersedes":
		return "superseded-by"
	case "superseded-by":
		return "supersedes"
	case "depends-on":
		return "required-by"
	case "required-by":
		return "depends-on"
	case "relates-to":
		return "relates-to"
	default:
		if strings.HasSuffix(label, "-by") {
			return strings.TrimSuffix(label, "-by")
		}
		return label + "-by"
	}
}

// Unlink removes both directions of every edge between a and b.
func (s *Store) Unlink(a, b string) error {
	g := s.load()
	g[a] = removeTargets(g[a], b)
	g[b] = removeTargets(g[b], a)
	return s.save(g)
}

func removeTargets(edges []Edge, target string) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.Target != target {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns all edges touching id in the requested direction.
func (s *Store) Edges(id string, dir Direction) []ResolvedEdge {
	g := s.load()
	var out []ResolvedEdge

	if dir == Out || dir == Both {
		for _, e := range g[id] {
			out = append(out, ResolvedEdge{Other: e.Target, Label: e.Label, Direction: Out})
		}
	}
	if dir == In || dir == Both {
		for src, edges := range g {
			if src == id {
				continue
			}
			for _, e := range edges {
				if e.Target == id {
					out = append(out, ResolvedEdge{Other: src, Label: e.Label, Direction: In})
				}
			}
		}
	}
	return out
}

// CascadeDelete removes every edge whose either endpoint is id.
func (s *Store) CascadeDelete(id string) error {
	g := s.load()
	delete(g, id)
	for k, edges := range g {
		g[k] = removeTargets(edges, id)
	}
	return s.save(g)
}

// Hop is one node discovered during Expand, with its distance from root.
type Hop struct {
	ID       string
	Distance int
}

// Expand performs a BFS from root up to depth hops, returning every
// discovered node (including root at distance 0) and the edges traversed.
func (s *Store) Expand(root string, depth int) ([]Hop, []Edge) {
	g := s.load()
	visited := map[string]int{root: 0}
	order := []Hop{{ID: root, Distance: 0}}
	var traversed []Edge

	frontier := []string{root}
	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, e := range g[id] {
				if _, seen := visited[e.Target]; seen {
					continue
				}
				visited[e.Target] = d
				order = append(order, Hop{ID: e.Target, Distance: d})
				traversed = append(traversed, Edge{Target: e.Target, Label: e.Label})
				next = append(next, e.Target)
			}
		}
		frontier = next
	}
	return order, traversed
}

// Repair reconciles the graph against known — the rebuilt index's id set,
// the ground truth per spec §3 Ownership — dropping any node or edge that
// references an id no longer present. A corrupt graph.json already
// degrades to empty via load(), so this also covers spec §4.4's "corrupt
// graph file -> start empty and continue" by simply having nothing left
// to reconcile.
func (s *Store) Repair(known KnownIDs) error {
	g := s.load()
	for id, edges := range g {
		if !known(id) {
			delete(g, id)
			continue
		}
		kept := edges[:0]
		for _, e := range edges {
			if known(e.Target) {
				kept = append(kept, e)
			}
		}
		g[id] = kept
	}
	return s.save(g)
}
