package main

import (
	"errors"
	"testing"

	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/memerr"
)

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
		{"solo", []string{"solo"}},
	}
	for _, tt := range tests {
		got := splitCSV(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("splitCSV(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitCSV(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{memerr.New(memerr.KindValidation, "bad id"), exitProtectOrBad},
		{memerr.New(memerr.KindProtection, "blocked"), exitProtectOrBad},
		{memerr.New(memerr.KindFilesystem, "disk full"), exitIO},
		{errors.New("plain error"), exitIO},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestContainsTag(t *testing.T) {
	tags := []string{"file:main.go", "GoTCHA", "perf"}
	if !containsTag(tags, "gotcha") {
		t.Error("expected case-insensitive match on GoTCHA")
	}
	if !containsTag(tags, "main.go") {
		t.Error("expected substring match on file:main.go")
	}
	if containsTag(tags, "nonexistent") {
		t.Error("did not expect a match")
	}
}

func TestDirectionLabel(t *testing.T) {
	tests := []struct {
		d    graph.Direction
		want string
	}{
		{graph.Out, "->"},
		{graph.In, "<-"},
		{graph.Both, "--"},
	}
	for _, tt := range tests {
		if got := directionLabel(tt.d); got != tt.want {
			t.Errorf("directionLabel(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
