package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/memkeep/memkeep/internal/memerr"
	"github.com/memkeep/memkeep/internal/memindex"
)

// exitCodeFor maps an error's memerr.Kind to the CLI's process exit code
// (spec §6): validation/protection failures are user errors (2), every
// other kind is an operational failure (3).
func exitCodeFor(err error) int {
	switch memerr.KindOf(err) {
	case memerr.KindValidation, memerr.KindProtection:
		return exitProtectOrBad
	default:
		return exitIO
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}

// printEntries renders a page of index entries in the requested format
// (spec §6 "--format json|table|list").
func printEntries(entries []memindex.Entry, total int, format string) {
	switch format {
	case "json":
		printJSON(map[string]any{"entries": entries, "total": total})
	case "list":
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n", e.ID, e.Type, e.Title)
		}
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSCOPE\tTITLE\tTAGS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Type, e.Scope, e.Title, strings.Join(e.Tags, ","))
		}
		w.Flush()
		fmt.Printf("%d of %d\n", len(entries), total)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
