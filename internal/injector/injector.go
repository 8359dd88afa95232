// Package injector implements the context injector (C11, spec §4.11):
// given a tool event, it selects, prioritises, deduplicates, and formats
// the memories worth surfacing to the assistant. Grounded on wingthing's
// retrieval layer (internal/memory/retrieval.go), which walked a
// priority-layered set of memory sources and matched them against a
// task's keywords; generalized here into score-threshold filtering over
// the shared relevance scorer (C10) plus session-scoped dedup (C13).
package injector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/relevance"
	"github.com/memkeep/memkeep/internal/session"
)

// typePriority gives type precedence gotcha < decision < learning —
// lower number sorts first (spec §4.11 step 4). Types outside this set
// (artifact, breadcrumb, hub) share one precedence after these three.
var typePriority = map[string]int{
	"gotcha":   0,
	"decision": 1,
	"learning": 2,
}

func priorityOf(memType string) int {
	if p, ok := typePriority[memType]; ok {
		return p
	}
	return len(typePriority)
}

// globalCap bounds the total number of memories surfaced in one
// injection, regardless of per-type caps (spec §4.11 step 5).
const globalCap = 10

// Candidate is one memory available for injection, with the fields the
// relevance scorer and formatter need.
type Candidate struct {
	ID       string
	Type     string
	Title    string
	Tags     []string
	FilePatterns []string
	Updated  time.Time
	Severity string
	Body     string
}

// Event is the tool-use context that triggers injection (spec §4.11).
type Event struct {
	Tool        string
	FilePath    string
	ContextTags []string
}

// scored pairs a candidate with its relevance score, kept only
// internally for sorting.
type scored struct {
	candidate Candidate
	score     relevance.Score
}

// Select runs steps 1–5 of the injector (spec §4.11): filters candidates
// to enabled types above their effective threshold, drops anything
// already shown this session, sorts by type precedence then score, and
// applies per-type and global caps. It does not mutate session state —
// callers should call Record once the selection is actually surfaced.
func Select(candidates []Candidate, ev Event, inj config.Injection, sess *session.State, weights relevance.Weights, now time.Time) []Candidate {
	if !inj.Enabled {
		return nil
	}

	multiplier := inj.HookMultipliers[ev.Tool]
	if multiplier <= 0 {
		multiplier = 1.0
	}

	var passing []scored
	for _, c := range candidates {
		policy, ok := inj.Types[c.Type]
		if !ok || !policy.Enabled {
			continue
		}
		if sess != nil && sess.Has(c.ID, c.Type) {
			continue
		}

		effectiveThreshold := policy.Threshold * multiplier
		if effectiveThreshold > 1.0 {
			effectiveThreshold = 1.0
		}

		s := relevance.ScoreMemory(relevance.Memory{
			Tags:         c.Tags,
			FilePatterns: c.FilePatterns,
			Updated:      c.Updated,
			Severity:     c.Severity,
		}, relevance.Context{
			FilePath:    ev.FilePath,
			ContextTags: ev.ContextTags,
		}, weights, now)

		if s.Overall < effectiveThreshold {
			continue
		}
		passing = append(passing, scored{candidate: c, score: s})
	}

	sort.SliceStable(passing, func(i, j int) bool {
		pi, pj := priorityOf(passing[i].candidate.Type), priorityOf(passing[j].candidate.Type)
		if pi != pj {
			return pi < pj
		}
		return passing[i].score.Overall > passing[j].score.Overall
	})

	perTypeCount := map[string]int{}
	var out []Candidate
	for _, s := range passing {
		if len(out) >= globalCap {
			break
		}
		policy := inj.Types[s.candidate.Type]
		if policy.Limit > 0 && perTypeCount[s.candidate.Type] >= policy.Limit {
			continue
		}
		perTypeCount[s.candidate.Type]++
		out = append(out, s.candidate)
	}
	return out
}

// Record marks every selected candidate as shown, so a later Select call
// in the same session won't resurface it (spec §4.11 step 6, §4.13).
func Record(sess *session.State, selected []Candidate) {
	if sess == nil {
		return
	}
	for _, c := range selected {
		sess.Record(c.ID, c.Type)
	}
}

// Format renders the selection as grouped Markdown bullets per type, in
// the same type-precedence order used for selection (spec §4.11 step
// 6). Returns "" if nothing was selected, so callers can skip emitting
// additionalContext entirely.
func Format(selected []Candidate) string {
	if len(selected) == 0 {
		return ""
	}

	byType := map[string][]Candidate{}
	var order []string
	for _, c := range selected {
		if _, seen := byType[c.Type]; !seen {
			order = append(order, c.Type)
		}
		byType[c.Type] = append(byType[c.Type], c)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return priorityOf(order[i]) < priorityOf(order[j])
	})

	var sb strings.Builder
	for _, memType := range order {
		sb.WriteString(fmt.Sprintf("## Relevant %ss\n", memType))
		for _, c := range byType[memType] {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", c.Title, firstLine(c.Body)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
