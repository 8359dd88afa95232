package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/embedding"
	"github.com/memkeep/memkeep/internal/memory"
)

// similarityResult is one semantic-search hit, with its cosine score.
type similarityResult struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Scope      string  `json:"scope"`
	Similarity float32 `json:"similarity"`
}

func newSemanticCmd() *cobra.Command {
	var typeFl, format string
	var limit int
	var threshold float64

	cmd := &cobra.Command{
		Use:   "semantic <query>",
		Short: "Semantic search over memory content using embeddings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			query := args[0]

			embedder, err := a.embedder()
			if err != nil {
				// spec §7: EmbeddingProviderError at the CLI boundary degrades
				// to a warning and a keyword-search fallback, not a hard failure.
				fmt.Fprintf(os.Stderr, "warning: embedding provider unavailable (%v); falling back to keyword search\n", err)
				return runKeywordFallback(a, query, typeFl, limit, format)
			}

			priority := a.readableScopesInPriority()
			candidates, _, err := a.store.List(memory.ListFilter{Type: typeFl}, priority)
			if err != nil {
				return err
			}

			vectors := make(map[string][]float32, len(candidates))
			byID := make(map[string]memory.Memory, len(candidates))
			for _, e := range candidates {
				sc, scErr := a.resolveScope(e.Scope)
				if scErr != nil {
					continue
				}
				mem, readErr := a.store.Read(sc, e.ID)
				if readErr != nil {
					continue
				}
				root := a.roots[sc]
				vec, embedErr := embedding.NewStore(root.FS).Get(e.ID, mem.Body, embedder, time.Now())
				if embedErr != nil {
					continue
				}
				vectors[e.ID] = vec
				byID[e.ID] = mem
			}

			queryVecs, err := embedder.Embed([]string{embedding.TruncateForEmbedding(query)})
			if err != nil || len(queryVecs) == 0 {
				fmt.Fprintf(os.Stderr, "warning: failed to embed query (%v); falling back to keyword search\n", err)
				return runKeywordFallback(a, query, typeFl, limit, format)
			}
			queryVec := embedding.Normalize(queryVecs[0])

			neighbors := embedding.Knn(queryVec, vectors, float32(threshold), limit, nil)

			results := make([]similarityResult, 0, len(neighbors))
			for _, n := range neighbors {
				mem := byID[n.ID]
				results = append(results, similarityResult{
					ID: mem.ID, Type: mem.Header.Type, Title: mem.Header.Title,
					Scope: string(mem.Scope), Similarity: n.Similarity,
				})
			}
			printSimilarityResults(results, format)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFl, "type", "", "filter by memory type")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results to return")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "minimum cosine similarity")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table|list")
	return cmd
}

// runKeywordFallback is the degraded path when no embedding provider is
// reachable: a plain substring search over titles (spec §7).
func runKeywordFallback(a *app, query, typeFl string, limit int, format string) error {
	priority := a.readableScopesInPriority()
	all, _, err := a.store.List(memory.ListFilter{Type: typeFl}, priority)
	if err != nil {
		return err
	}
	needle := strings.ToLower(query)
	var page []similarityResult
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			page = append(page, similarityResult{ID: e.ID, Type: e.Type, Title: e.Title, Scope: e.Scope, Similarity: 0})
		}
	}
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	printSimilarityResults(page, format)
	return nil
}

func printSimilarityResults(results []similarityResult, format string) {
	if format == "json" {
		printJSON(map[string]any{"results": results})
		return
	}
	for _, r := range results {
		if r.Similarity > 0 {
			fmt.Printf("%.3f\t%s\t%s\t%s\n", r.Similarity, r.ID, r.Type, r.Title)
		} else {
			fmt.Printf("%s\t%s\t%s\n", r.ID, r.Type, r.Title)
		}
	}
}
