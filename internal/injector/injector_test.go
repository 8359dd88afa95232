package injector

import (
	"testing"
	"time"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/relevance"
	"github.com/memkeep/memkeep/internal/session"
)

func baseInjection() config.Injection {
	return config.Injection{
		Enabled: true,
		Types: map[string]config.TypePolicy{
			"gotcha":   {Enabled: true, Threshold: 0.1, Limit: 5},
			"decision": {Enabled: true, Threshold: 0.1, Limit: 5},
			"learning": {Enabled: true, Threshold: 0.1, Limit: 5},
		},
		HookMultipliers: map[string]float64{"Write": 1.0},
	}
}

func TestSelectFiltersDisabledTypes(t *testing.T) {
	inj := baseInjection()
	inj.Types["learning"] = config.TypePolicy{Enabled: false}

	now := time.Now()
	candidates := []Candidate{
		{ID: "learning-1", Type: "learning", Title: "skip me", Tags: []string{"x"}, Updated: now},
	}
	got := Select(candidates, Event{Tool: "Write", ContextTags: []string{"x"}}, inj, session.New(now), relevance.DefaultWeights(), now)
	if len(got) != 0 {
		t.Fatalf("expected disabled type to be filtered, got %+v", got)
	}
}

func TestSelectDedupsAgainstSessionState(t *testing.T) {
	inj := baseInjection()
	now := time.Now()
	sess := session.New(now)
	sess.Record("gotcha-1", "gotcha")

	candidates := []Candidate{
		{ID: "gotcha-1", Type: "gotcha", Title: "already shown", Tags: []string{"x"}, Updated: now},
	}
	got := Select(candidates, Event{Tool: "Write", ContextTags: []string{"x"}}, inj, sess, relevance.DefaultWeights(), now)
	if len(got) != 0 {
		t.Fatalf("expected already-shown memory to be excluded, got %+v", got)
	}
}

func TestSelectOrdersByTypePrecedenceThenScore(t *testing.T) {
	inj := baseInjection()
	now := time.Now()
	candidates := []Candidate{
		{ID: "learning-1", Type: "learning", Title: "a learning", Tags: []string{"x"}, Updated: now},
		{ID: "gotcha-1", Type: "gotcha", Title: "a gotcha", Tags: []string{"x"}, Updated: now},
		{ID: "decision-1", Type: "decision", Title: "a decision", Tags: []string{"x"}, Updated: now},
	}
	got := Select(candidates, Event{Tool: "Write", ContextTags: []string{"x"}}, inj, session.New(now), relevance.DefaultWeights(), now)
	if len(got) != 3 {
		t.Fatalf("expected all 3 to pass, got %d", len(got))
	}
	if got[0].Type != "gotcha" || got[1].Type != "decision" || got[2].Type != "learning" {
		t.Fatalf("expected gotcha < decision < learning ordering, got %+v", got)
	}
}

func TestSelectAppliesPerTypeCap(t *testing.T) {
	inj := baseInjection()
	inj.Types["gotcha"] = config.TypePolicy{Enabled: true, Threshold: 0.1, Limit: 1}
	now := time.Now()
	candidates := []Candidate{
		{ID: "gotcha-1", Type: "gotcha", Title: "first", Tags: []string{"x"}, Updated: now},
		{ID: "gotcha-2", Type: "gotcha", Title: "second", Tags: []string{"x"}, Updated: now},
	}
	got := Select(candidates, Event{Tool: "Write", ContextTags: []string{"x"}}, inj, session.New(now), relevance.DefaultWeights(), now)
	if len(got) != 1 {
		t.Fatalf("expected per-type cap of 1, got %d", len(got))
	}
}

func TestSelectHonorsEffectiveThresholdViaHookMultiplier(t *testing.T) {
	inj := baseInjection()
	inj.Types["gotcha"] = config.TypePolicy{Enabled: true, Threshold: 0.9, Limit: 5}
	inj.HookMultipliers["Read"] = 0.1 // lowers the effective threshold well below the base
	now := time.Now()
	candidates := []Candidate{
		{ID: "gotcha-1", Type: "gotcha", Title: "weak match", Tags: []string{"unrelated"}, Updated: now},
	}
	got := Select(candidates, Event{Tool: "Read", ContextTags: []string{"x"}}, inj, session.New(now), relevance.DefaultWeights(), now)
	// No tag or file match: overall = (0.2*1.0 recency + 0.1*0.5 severity)
	// = 0.25, below the base 0.9 but above the effective 0.9*0.1 = 0.09.
	if len(got) != 1 {
		t.Fatalf("expected the lowered effective threshold to admit the weak match, got %d", len(got))
	}
}

func TestSelectClampsEffectiveThresholdToOne(t *testing.T) {
	inj := baseInjection()
	inj.Types["gotcha"] = config.TypePolicy{Enabled: true, Threshold: 0.9, Limit: 5}
	inj.HookMultipliers["Bash"] = 2.0 // 0.9*2.0 = 1.8, must clamp to 1.0
	now := time.Now()
	candidates := []Candidate{
		{ID: "gotcha-1", Type: "gotcha", Title: "perfect score candidate", Tags: []string{"x"}, FilePatterns: []string{"src/a.go"}, Updated: now, Severity: "critical"},
	}
	got := Select(candidates, Event{Tool: "Bash", FilePath: "src/a.go", ContextTags: []string{"x"}}, inj, session.New(now), relevance.DefaultWeights(), now)
	// Tag, exact file, recency and severity all score 1, so overall is 1.0:
	// it passes against the clamped threshold 1.0, and would not against 1.8.
	if len(got) != 1 {
		t.Fatalf("expected the perfect-score candidate to pass the clamped threshold, got %d", len(got))
	}
}

func TestRecordMarksSelectedInSession(t *testing.T) {
	now := time.Now()
	sess := session.New(now)
	selected := []Candidate{{ID: "gotcha-1", Type: "gotcha"}}
	Record(sess, selected)
	if !sess.Has("gotcha-1", "gotcha") {
		t.Fatal("expected Record to mark the candidate as shown")
	}
}

func TestFormatGroupsByTypeInPrecedenceOrder(t *testing.T) {
	selected := []Candidate{
		{ID: "learning-1", Type: "learning", Title: "L1", Body: "learning body"},
		{ID: "gotcha-1", Type: "gotcha", Title: "G1", Body: "gotcha body"},
	}
	out := Format(selected)
	gotchaIdx := indexOf(out, "Relevant gotchas")
	learningIdx := indexOf(out, "Relevant learnings")
	if gotchaIdx < 0 || learningIdx < 0 || gotchaIdx > learningIdx {
		t.Fatalf("expected gotchas section before learnings section, got:\n%s", out)
	}
}

func TestFormatEmptySelectionReturnsEmptyString(t *testing.T) {
	if out := Format(nil); out != "" {
		t.Fatalf("expected empty string for no selection, got %q", out)
	}
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
