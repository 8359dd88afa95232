package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/embedding"
	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/scope"
)

// linkSuggestion pairs two memories whose content is similar enough to be
// worth an explicit graph edge, but which aren't linked yet (spec §4.9's
// duplicate-detection machinery, repurposed at a lower threshold to
// surface "related, not identical" pairs as well as near-duplicates).
type linkSuggestion struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float32 `json:"similarity"`
}

func newSuggestLinksCmd() *cobra.Command {
	var scopeFl, format string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "suggest-links",
		Short: "Suggest graph edges between memories whose embeddings are highly similar but unlinked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}

			embedder, err := a.embedder()
			if err != nil {
				cmd.SilenceUsage = true
				return errWithExit{err, exitWarning}
			}

			suggestions, err := suggestLinksForScope(a, sc, embedder, float32(threshold))
			if err != nil {
				return err
			}

			if format == "json" {
				printJSON(map[string]any{"suggestions": suggestions})
				return nil
			}
			for _, s := range suggestions {
				fmt.Printf("%.3f\t%s\t%s\n", s.Similarity, s.A, s.B)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope to analyse")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.85, "minimum cosine similarity to suggest a link")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}

// suggestLinksForScope embeds every memory in sc, finds pairs whose
// similarity is at or above threshold (there is no upper bound, so
// near-duplicates are included), and drops any pair that already has a
// graph edge.
func suggestLinksForScope(a *app, sc scope.Scope, embedder embedding.Embedder, threshold float32) ([]linkSuggestion, error) {
	root, ok := a.roots[sc]
	if !ok {
		return nil, fmt.Errorf("scope %q is not configured", sc)
	}

	entries, _, err := a.store.List(memory.ListFilter{Scopes: []scope.Scope{sc}}, []scope.Scope{sc})
	if err != nil {
		return nil, err
	}

	cache := embedding.NewStore(root.FS)
	vectors := make(map[string][]float32, len(entries))
	for _, e := range entries {
		mem, readErr := a.store.Read(sc, e.ID)
		if readErr != nil {
			continue
		}
		vec, embedErr := cache.Get(e.ID, mem.Body, embedder, time.Now())
		if embedErr != nil {
			continue
		}
		vectors[e.ID] = vec
	}

	opts := embedding.DefaultDuplicateOptions()
	opts.Threshold = threshold
	pairs := embedding.Duplicates(vectors, opts)

	g := graph.New(root.FS)
	var suggestions []linkSuggestion
	for _, p := range pairs {
		if alreadyLinked(g, p.A, p.B) {
			continue
		}
		suggestions = append(suggestions, linkSuggestion{A: p.A, B: p.B, Similarity: p.Similarity})
	}
	return suggestions, nil
}

func alreadyLinked(g *graph.Store, a, b string) bool {
	for _, e := range g.Edges(a, graph.Both) {
		if e.Other == b {
			return true
		}
	}
	return false
}
