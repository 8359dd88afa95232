package scope

import "github.com/memkeep/memkeep/internal/memindex"

// Merge concatenates per-scope index entries into one list, each tagged
// with its scope, in priority order. When the same id appears in more
// than one scope, the entry from the higher-priority (earlier) tier
// shadows lower ones (spec §4.5, §9 open question: "higher-priority-wins").
func Merge(byScope map[Scope][]memindex.Entry, priority []Scope) []memindex.Entry {
	seen := map[string]bool{}
	var out []memindex.Entry
	for _, s := range priority {
		for _, e := range byScope[s] {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			e.Scope = string(s)
			out = append(out, e)
		}
	}
	return out
}
