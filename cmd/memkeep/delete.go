package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/embedding"
)

func newDeleteCmd() *cobra.Command {
	var scopeFl, format string
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a memory and its index, graph, and embedding entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id := args[0]
			sc, err := a.resolveScope(scopeFl)
			if err != nil {
				return err
			}

			if !force {
				cmd.SilenceUsage = true
				return errWithExit{fmt.Errorf("refusing to delete %q without --force", id), exitProtectOrBad}
			}

			root, ok := a.roots[sc]
			if !ok {
				return fmt.Errorf("scope %q is not configured", sc)
			}
			embedStore := embedding.NewStore(root.FS)

			result, err := a.store.Delete(sc, id, func(memoryID string) error {
				cache := embedStore.Load()
				if _, ok := cache.Memories[memoryID]; !ok {
					return nil
				}
				delete(cache.Memories, memoryID)
				return embedStore.Save(cache)
			})
			if err != nil {
				cmd.SilenceUsage = true
				if format == "json" {
					printJSON(map[string]any{"status": "error", "error": err.Error(), "result": result})
				}
				return errWithExit{err, exitCodeFor(err)}
			}

			if format == "json" {
				printJSON(map[string]any{"status": "ok", "id": id, "result": result})
			} else {
				fmt.Printf("deleted %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "scope the memory lives in")
	cmd.Flags().BoolVar(&force, "force", false, "confirm the delete")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}
