package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/scope"
)

func newReadCmd() *cobra.Command {
	var scopeFl, format string

	cmd := &cobra.Command{
		Use:   "read <id>",
		Short: "Read a memory by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id := args[0]

			scopes := a.readableScopesInPriority()
			if scopeFl != "" {
				sc, err := a.resolveScope(scopeFl)
				if err != nil {
					return err
				}
				scopes = []scope.Scope{sc}
			}

			for _, sc := range scopes {
				mem, err := a.store.Read(sc, id)
				if err != nil {
					continue
				}
				if format == "json" {
					printJSON(map[string]any{
						"id": mem.ID, "type": mem.Header.Type, "title": mem.Header.Title,
						"tags": mem.Header.Tags, "created": mem.Header.Created, "updated": mem.Header.Updated,
						"severity": mem.Header.Severity, "links": mem.Header.Links, "source": mem.Header.Source,
						"scope": string(mem.Scope), "body": mem.Body,
					})
				} else {
					fmt.Printf("# %s (%s, %s)\n\n%s\n", mem.Header.Title, mem.ID, mem.Scope, mem.Body)
				}
				return nil
			}
			err = fmt.Errorf("memory %q not found in any readable scope", id)
			cmd.SilenceUsage = true
			return errWithExit{err, exitIO}
		},
	}

	cmd.Flags().StringVar(&scopeFl, "scope", "", "restrict the search to a single scope")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table")
	return cmd
}
