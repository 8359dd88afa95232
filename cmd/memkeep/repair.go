package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/scope"
)

// newRepairCmd rebuilds index.json from the memory files on disk (the
// ground truth per spec §3 Ownership) and then reconciles graph.json
// against the rebuilt id set, for every configured scope. This recovers
// both a corrupt cache file and the spec §8 Atomicity case of a memory
// written but never indexed (a crash between the file write and the
// index update).
func newRepairCmd() *cobra.Command {
	var scopeFl string
	var fix bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rebuild corrupt index/graph files for a scope (or every scope)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			scopes := a.readableScopesInPriority()
			if scopeFl != "" {
				sc, scErr := a.resolveScope(scopeFl)
				if scErr != nil {
					return scErr
				}
				scopes = []scope.Scope{sc}
			}

			if !fix {
				fmt.Println("dry run: pass --fix to rewrite index.json and graph.json for each scope")
				return nil
			}

			for _, sc := range scopes {
				root, ok := a.roots[sc]
				if !ok {
					continue
				}
				idx, err := a.store.Rebuild(sc)
				if err != nil {
					fmt.Printf("%s: index repair failed: %v\n", sc, err)
					continue
				}
				known := make(map[string]bool, len(idx.Entries))
				for _, e := range idx.Entries {
					known[e.ID] = true
				}
				if err := graph.New(root.FS).Repair(func(id string) bool { return known[id] }); err != nil {
					fmt.Printf("%s: graph repair failed: %v\n", sc, err)
					continue
				}
				fmt.Printf("%s: repaired\n", sc)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope to repair (default: every readable scope)")
	cmd.Flags().BoolVar(&fix, "fix", false, "actually rewrite the files instead of a dry run")
	return cmd
}
