package frontmatter

import (
	"strings"
	"testing"
	"time"
)

func sampleHeader() Header {
	return Header{
		Type:    "decision",
		Title:   "Use OAuth2 with PKCE",
		Created: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Updated: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Tags:    []string{"auth", "oauth2"},
	}
}

func TestRoundTrip(t *testing.T) {
	h := sampleHeader()
	body := "# Notes\n\nSome body text.\n"

	data, err := Emit(h, body)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Header.Title != h.Title || doc.Header.Type != h.Type {
		t.Fatalf("header mismatch: got %+v", doc.Header)
	}
	if strings.TrimSpace(doc.Body) != strings.TrimSpace(body) {
		t.Fatalf("body mismatch: got %q want %q", doc.Body, body)
	}
}

func TestParseMissingFence(t *testing.T) {
	_, err := Parse([]byte("no fences here"))
	if err == nil {
		t.Fatal("expected error for missing fence")
	}
}

func TestParseMissingRequiredKey(t *testing.T) {
	data := []byte("---\ntype: decision\ntitle: x\n---\nbody\n")
	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected error for missing created/updated/tags")
	}
}

func TestEmitOmitsOptionalFields(t *testing.T) {
	h := sampleHeader()
	data, err := Emit(h, "body")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if strings.Contains(string(data), "severity:") {
		t.Fatalf("expected no severity key when absent, got: %s", data)
	}
	if strings.Contains(string(data), "links:") {
		t.Fatalf("expected no links key when absent, got: %s", data)
	}
}
