package slug

import (
	"regexp"
	"testing"
)

var valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestGenerateShape(t *testing.T) {
	cases := []string{"Use OAuth2 with PKCE", "   ", "!!!", "a very long title " + string(make([]byte, 100))}
	for _, c := range cases {
		s := Generate(c, "")
		if !valid.MatchString(s) {
			t.Errorf("Generate(%q) = %q does not match slug shape", c, s)
		}
		if len(s) > 80 {
			t.Errorf("Generate(%q) = %q exceeds 80 chars", c, s)
		}
	}
}

func TestGenerateEmptyFallsBackToUntitled(t *testing.T) {
	if got := Generate("!!!", ""); got != "untitled" {
		t.Errorf("expected untitled, got %q", got)
	}
}

func TestGenerateWithTypePrefix(t *testing.T) {
	s := Generate("OAuth2", "decision")
	if s != "decision-oauth2" {
		t.Errorf("got %q", s)
	}
	// Already prefixed: no double prefix.
	s2 := Generate("decision-oauth2", "decision")
	if s2 != "decision-oauth2" {
		t.Errorf("got %q, expected no double prefix", s2)
	}
}

func TestResolveCollision(t *testing.T) {
	taken := map[string]bool{"decision-oauth2": true}
	got := ResolveCollision("decision-oauth2", taken)
	if got != "decision-oauth2-1" {
		t.Errorf("got %q, want decision-oauth2-1", got)
	}
}

func TestResolveCollisionIdempotenceUnderGrowth(t *testing.T) {
	taken := map[string]bool{"x": true}
	first := ResolveCollision("x", taken)
	taken[first] = true
	second := ResolveCollision("x", taken)
	if first == second {
		t.Errorf("expected distinct resolutions, got %q twice", first)
	}
}

func TestResolveCollisionFillsGaps(t *testing.T) {
	taken := map[string]bool{"x": true, "x-1": true, "x-3": true}
	got := ResolveCollision("x", taken)
	if got != "x-2" {
		t.Errorf("got %q, want x-2 (smallest free suffix)", got)
	}
}
