package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/embedding"
	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/relevance"
	"github.com/memkeep/memkeep/internal/scope"
)

// qualityReport summarizes the health signals quality surfaces: memories
// with no graph edges at all, memories that haven't been touched in a
// long time, and pairs close enough to be likely duplicates.
type qualityReport struct {
	Orphans         []string         `json:"orphans"`
	Stale           []string         `json:"stale"`
	LikelyDuplicate []linkSuggestion `json:"likelyDuplicate"`
	TotalMemories   int              `json:"totalMemories"`
}

const staleRecencyFloor = 0.15

func newQualityCmd() *cobra.Command {
	var scopeFl, format string

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Report orphaned, stale, and likely-duplicate memories in a scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}

			report, err := buildQualityReport(a, sc)
			if err != nil {
				return err
			}

			if format == "json" {
				printJSON(report)
			} else {
				fmt.Printf("memories: %d\n", report.TotalMemories)
				fmt.Printf("orphans (%d): %v\n", len(report.Orphans), report.Orphans)
				fmt.Printf("stale (%d): %v\n", len(report.Stale), report.Stale)
				fmt.Printf("likely duplicates (%d):\n", len(report.LikelyDuplicate))
				for _, p := range report.LikelyDuplicate {
					fmt.Printf("  %.3f\t%s\t%s\n", p.Similarity, p.A, p.B)
				}
			}

			if len(report.Orphans) > 0 || len(report.Stale) > 0 || len(report.LikelyDuplicate) > 0 {
				cmd.SilenceUsage = true
				return errWithExit{fmt.Errorf("quality issues found"), exitWarning}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope to analyse")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}

func buildQualityReport(a *app, sc scope.Scope) (qualityReport, error) {
	root, ok := a.roots[sc]
	if !ok {
		return qualityReport{}, fmt.Errorf("scope %q is not configured", sc)
	}

	entries, _, err := a.store.List(memory.ListFilter{Scopes: []scope.Scope{sc}}, []scope.Scope{sc})
	if err != nil {
		return qualityReport{}, err
	}

	now := time.Now()
	g := graph.New(root.FS)
	report := qualityReport{TotalMemories: len(entries)}

	for _, e := range entries {
		if len(g.Edges(e.ID, graph.Both)) == 0 {
			report.Orphans = append(report.Orphans, e.ID)
		}
		if relevance.RecencyScore(e.Updated, now) <= staleRecencyFloor {
			report.Stale = append(report.Stale, e.ID)
		}
	}

	embedder, err := a.embedder()
	if err == nil {
		suggestions, sErr := suggestLinksForScope(a, sc, embedder, float32(embedding.DefaultDuplicateOptions().Threshold))
		if sErr == nil {
			report.LikelyDuplicate = suggestions
		}
	}

	return report, nil
}
