package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/memory"
)

func newSearchCmd() *cobra.Command {
	var typeFl, tagsFl, format string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Keyword search over memory titles and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			query := strings.ToLower(args[0])

			priority := a.readableScopesInPriority()
			all, _, err := a.store.List(memory.ListFilter{Type: typeFl, Tags: splitCSV(tagsFl), Limit: 0}, priority)
			if err != nil {
				return err
			}

			var matched []memindex.Entry
			for _, e := range all {
				if strings.Contains(strings.ToLower(e.Title), query) || containsTag(e.Tags, query) {
					matched = append(matched, e)
				}
			}
			if limit > 0 && len(matched) > limit {
				matched = matched[:limit]
			}
			printEntries(matched, len(matched), format)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFl, "type", "", "filter by memory type")
	cmd.Flags().StringVar(&tagsFl, "tags", "", "filter by comma-separated tags")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to return")
	cmd.Flags().StringVar(&format, "format", "table", "output format: json|table|list")
	return cmd
}

func containsTag(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
