package relevance

import (
	"testing"
	"time"

	"github.com/memkeep/memkeep/internal/pattern"
)

func TestTagScoreEmptySides(t *testing.T) {
	if TagScore(nil, []string{"auth"}) != 0 {
		t.Fatal("expected zero score with no memory tags")
	}
	if TagScore([]string{"auth"}, nil) != 0 {
		t.Fatal("expected zero score with no context tags")
	}
}

func TestTagScoreMatchesCaseInsensitive(t *testing.T) {
	score := TagScore([]string{"Auth", "login"}, []string{"auth", "other"})
	if score <= 0 {
		t.Fatalf("expected positive score, got %v", score)
	}
}

func TestFileScoreRanking(t *testing.T) {
	if FileScore(pattern.Exact) <= FileScore(pattern.Directory) {
		t.Fatal("exact should outrank directory")
	}
	if FileScore(pattern.Directory) <= FileScore(pattern.Glob) {
		t.Fatal("directory should outrank glob")
	}
	if FileScore(pattern.None) != 0 {
		t.Fatal("none should score zero")
	}
}

func TestRecencyScoreDecaysAndFloors(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := RecencyScore(now, now)
	if fresh != 1 {
		t.Fatalf("expected score 1 for zero age, got %v", fresh)
	}
	halfLife := RecencyScore(now.AddDate(0, 0, -30), now)
	if halfLife < 0.49 || halfLife > 0.51 {
		t.Fatalf("expected ~0.5 at 30-day half-life, got %v", halfLife)
	}
	ancient := RecencyScore(now.AddDate(-5, 0, 0), now)
	if ancient != 0.1 {
		t.Fatalf("expected floor of 0.1, got %v", ancient)
	}
}

func TestSeverityScoreMapping(t *testing.T) {
	cases := map[string]float64{
		SeverityCritical: 1.0,
		SeverityHigh:     0.8,
		SeverityMedium:   0.5,
		SeverityLow:      0.3,
		"":                0.5,
		"bogus":          0.5,
	}
	for sev, want := range cases {
		if got := SeverityScore(sev); got != want {
			t.Fatalf("severity %q: got %v want %v", sev, got, want)
		}
	}
}

func TestScoreMemoryWeighting(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mem := Memory{
		Tags:         []string{"auth"},
		FilePatterns: []string{"src/auth/**"},
		Updated:      now,
		Severity:     SeverityCritical,
	}
	ctx := Context{FilePath: "src/auth/login.ts", ContextTags: []string{"auth"}}
	s := ScoreMemory(mem, ctx, DefaultWeights(), now)
	if s.Overall <= 0 || s.Overall > 1 {
		t.Fatalf("expected overall in (0,1], got %v", s.Overall)
	}
	if s.File != FileScore(pattern.Glob) {
		t.Fatalf("expected glob file score, got %v", s.File)
	}
}

func TestCombineWithSemanticOnlyAppliesWithoutTagOverlap(t *testing.T) {
	w := DefaultWeights()
	withTag := Score{Tag: 0.9, File: 0, Recency: 1, Severity: 0.5, Overall: 0.5}
	combined := CombineWithSemantic(withTag, 0.1, w)
	if combined.Tag != 0.9 {
		t.Fatal("expected existing tag overlap to be preserved over semantic score")
	}

	noTag := Score{Tag: 0, File: 0, Recency: 1, Severity: 0.5}
	combined = CombineWithSemantic(noTag, 0.75, w)
	if combined.Tag != 0.75 {
		t.Fatalf("expected semantic score to fill in for zero tag overlap, got %v", combined.Tag)
	}
	if combined.Overall <= 0 {
		t.Fatal("expected overall to be recomputed")
	}
}
