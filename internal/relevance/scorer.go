// Package relevance implements the deterministic scoring function over
// tags, file-path patterns, recency, and severity (spec §4.10), combined
// with the caller-supplied semantic score into a single ranking. The
// tag/file keyword overlap idea is grounded on wingthing's memory
// retrieval layer (internal/memory/retrieval.go), which matched a task
// prompt's keywords against a memory's tags and headings.
package relevance

import (
	"math"
	"strings"
	"time"

	"github.com/memkeep/memkeep/internal/pattern"
)

// Severity levels recognised by SeverityScore (spec §4.10).
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Weights are the default component weights (spec §4.10), overridable by
// config.
type Weights struct {
	Tag      float64
	File     float64
	Recency  float64
	Severity float64
}

// DefaultWeights matches spec §4.10.
func DefaultWeights() Weights {
	return Weights{Tag: 0.3, File: 0.4, Recency: 0.2, Severity: 0.1}
}

// Memory is the subset of a memory's attributes the scorer needs.
type Memory struct {
	Tags         []string
	FilePatterns []string
	Updated      time.Time
	Severity     string
}

// Context is the tool-use context the scorer evaluates a memory against.
type Context struct {
	FilePath    string
	ContextTags []string
}

// Score is the full breakdown for one memory, so callers (the injector)
// can explain or log a decision.
type Score struct {
	Tag      float64
	File     float64
	Recency  float64
	Severity float64
	Overall  float64
}

// TagScore computes matches/|context_tags| + min(0.1, 0.02*matches),
// clamped to 1; zero if either side is empty (spec §4.10).
func TagScore(memTags, contextTags []string) float64 {
	if len(memTags) == 0 || len(contextTags) == 0 {
		return 0
	}
	set := make(map[string]bool, len(memTags))
	for _, t := range memTags {
		set[strings.ToLower(t)] = true
	}
	matches := 0
	for _, t := range contextTags {
		if set[strings.ToLower(t)] {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	score := float64(matches)/float64(len(contextTags)) + math.Min(0.1, 0.02*float64(matches))
	if score > 1 {
		score = 1
	}
	return score
}

// FileScore maps a pattern.MatchType to its weight (spec §4.10).
func FileScore(mt pattern.MatchType) float64 {
	switch mt {
	case pattern.Exact:
		return 1.0
	case pattern.Directory:
		return 0.8
	case pattern.Glob:
		return 0.6
	default:
		return 0
	}
}

// RecencyScore decays with a 30-day half-life, floored at 0.1 (spec §4.10).
func RecencyScore(updated time.Time, now time.Time) float64 {
	ageDays := now.Sub(updated).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	score := math.Pow(0.5, ageDays/30)
	if score < 0.1 {
		return 0.1
	}
	return score
}

// SeverityScore maps a severity string to its weight; unknown/absent
// severities score 0.5 (spec §4.10).
func SeverityScore(severity string) float64 {
	switch severity {
	case SeverityCritical:
		return 1.0
	case SeverityHigh:
		return 0.8
	case SeverityMedium:
		return 0.5
	case SeverityLow:
		return 0.3
	default:
		return 0.5
	}
}

// ScoreMemory computes the weighted overall relevance of mem against ctx, plus
// a component breakdown. now is injected so scoring is deterministic in
// tests.
func ScoreMemory(mem Memory, ctx Context, w Weights, now time.Time) Score {
	tagScore := TagScore(mem.Tags, ctx.ContextTags)
	fileMatch := pattern.Match(ctx.FilePath, mem.FilePatterns)
	fileScore := FileScore(fileMatch)
	recencyScore := RecencyScore(mem.Updated, now)
	severityScore := SeverityScore(mem.Severity)

	totalWeight := w.Tag + w.File + w.Recency + w.Severity
	overall := 0.0
	if totalWeight > 0 {
		overall = (tagScore*w.Tag + fileScore*w.File + recencyScore*w.Recency + severityScore*w.Severity) / totalWeight
	}

	return Score{
		Tag:      tagScore,
		File:     fileScore,
		Recency:  recencyScore,
		Severity: severityScore,
		Overall:  overall,
	}
}

// CombineWithSemantic blends a keyword/structural overall score with a
// separately computed semantic similarity (spec §2 data flow: relevance
// scorer "consulting... the similarity engine"). Semantic similarity
// simply replaces the tag component's contribution whenever the tag score
// is zero (no context tags, or none overlapping), so memories with no tag
// overlap can still surface on meaning alone.
func CombineWithSemantic(s Score, semantic float64, w Weights) Score {
	if s.Tag > 0 {
		return s
	}
	totalWeight := w.Tag + w.File + w.Recency + w.Severity
	if totalWeight == 0 {
		return s
	}
	s.Tag = semantic
	s.Overall = (s.Tag*w.Tag + s.File*w.File + s.Recency*w.Recency + s.Severity*w.Severity) / totalWeight
	return s
}
