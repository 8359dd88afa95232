package main

import (
	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/memory"
)

func newListCmd() *cobra.Command {
	var (
		typeFl, tagsFl, scopeFl, sortBy, sortOrder, format string
		limit, offset                                      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories across readable scopes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			priority := a.readableScopesInPriority()
			entries, total, err := a.store.List(memory.ListFilter{
				Type: typeFl, Tags: splitCSV(tagsFl), Scope: scopeFl,
				SortBy: memindex.SortBy(sortBy), Ascending: sortOrder == "asc",
				Limit: limit, Offset: offset,
			}, priority)
			if err != nil {
				return err
			}
			printEntries(entries, total, format)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFl, "type", "", "filter by memory type")
	cmd.Flags().StringVar(&tagsFl, "tags", "", "filter by comma-separated tags (any match)")
	cmd.Flags().StringVar(&scopeFl, "scope", "", "filter by scope")
	cmd.Flags().StringVar(&sortBy, "sort-by", "updated", "sort field: created|updated|title")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "desc", "sort direction: asc|desc")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "results to skip before the page")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table|list")
	return cmd
}
