// Package frontmatter parses and emits memory files: a YAML header fenced
// by "---" lines followed by a Markdown body. Grounded on the
// frontmatter-splitting logic wingthing used for its own memory files
// (internal/memory), generalized into a typed round-tripping codec.
package frontmatter

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/memkeep/memkeep/internal/memerr"
)

const fence = "---"

// Header is the required+optional frontmatter schema (spec §6).
type Header struct {
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Created  time.Time `yaml:"created"`
	Updated  time.Time `yaml:"updated"`
	Tags     []string  `yaml:"tags"`
	Severity string    `yaml:"severity,omitempty"`
	Links    []string  `yaml:"links,omitempty"`
	Source   string    `yaml:"source,omitempty"`
}

// Document is a parsed memory file.
type Document struct {
	Header Header
	Body   string
}

// Parse splits data into a Header and body. It fails with KindParse if the
// "---" fences are missing (MalformedHeader) or if a required key is
// absent/mis-typed (InvalidSchema).
func Parse(data []byte) (Document, error) {
	content := string(data)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, fence+"\n") {
		return Document{}, memerr.New(memerr.KindParse, "frontmatter: malformed header: missing opening %q fence", fence)
	}

	rest := content[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return Document{}, memerr.New(memerr.KindParse, "frontmatter: malformed header: missing closing %q fence", fence)
	}

	yamlBlock := rest[:end]
	body := rest[end+len(fence)+1:]
	body = strings.TrimLeft(body, "\n")
	body = strings.TrimRight(body, "\n") + "\n"
	if strings.TrimSpace(body) == "" {
		body = ""
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &raw); err != nil {
		return Document{}, memerr.Wrap(memerr.KindParse, err, "frontmatter: invalid yaml header")
	}

	var h Header
	if err := yaml.Unmarshal([]byte(yamlBlock), &h); err != nil {
		return Document{}, memerr.Wrap(memerr.KindParse, err, "frontmatter: invalid yaml header")
	}

	if err := validateRequired(raw, h); err != nil {
		return Document{}, err
	}

	return Document{Header: h, Body: body}, nil
}

func validateRequired(raw map[string]any, h Header) error {
	for _, key := range []string{"type", "title", "created", "updated", "tags"} {
		if _, ok := raw[key]; !ok {
			return memerr.New(memerr.KindParse, "frontmatter: invalid schema: missing required key %q", key)
		}
	}
	if strings.TrimSpace(h.Type) == "" {
		return memerr.New(memerr.KindParse, "frontmatter: invalid schema: type must be non-empty")
	}
	if strings.TrimSpace(h.Title) == "" {
		return memerr.New(memerr.KindParse, "frontmatter: invalid schema: title must be non-empty")
	}
	if h.Created.IsZero() {
		return memerr.New(memerr.KindParse, "frontmatter: invalid schema: created must be a valid timestamp")
	}
	if h.Updated.IsZero() {
		return memerr.New(memerr.KindParse, "frontmatter: invalid schema: updated must be a valid timestamp")
	}
	return nil
}

// Emit renders a Document back to bytes. parse(emit(h, b)) round-trips
// modulo canonical whitespace around the body (single trailing newline).
func Emit(h Header, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(h)
	if err != nil {
		return nil, memerr.Wrap(memerr.KindInternal, err, "frontmatter: marshal header")
	}

	body = strings.TrimRight(body, "\n")

	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString("\n")
	sb.Write(yamlBytes)
	sb.WriteString(fence)
	sb.WriteString("\n")
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}
