// Package protect implements the path-protection policy (spec §4.12):
// deciding whether a tool operation (file edit or shell command) may
// touch a memory directory. It never allows destructive access to
// `.claude/memory` regardless of which scope it lives under.
package protect

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Decision is the outcome of evaluating one tool operation.
type Decision struct {
	Blocked bool
	Reason  string
}

func allow() Decision { return Decision{} }

func block(reason string) Decision {
	return Decision{Blocked: true, Reason: reason}
}

// readOnlyTools never need inspection; they can only observe.
var readOnlyTools = map[string]bool{
	"Read": true, "Glob": true, "Grep": true,
}

// writeTools mutate the filesystem directly by path.
var writeTools = map[string]bool{
	"Write": true, "Edit": true, "MultiEdit": true,
}

// readOnlyShellVerbs are whitelisted even against the memory directory,
// provided they don't redirect or pipe into it.
var readOnlyShellVerbs = map[string]bool{
	"cat": true, "head": true, "tail": true, "grep": true, "ls": true,
	"find": true, "stat": true, "file": true, "wc": true, "sort": true,
	"uniq": true, "diff": true,
}

var destructiveVerbs = []string{"rm", "mv", "cp"}

var redirectPattern = regexp.MustCompile(`(>>?|\|\s*tee)`)

// memoryDirMarker is the directory segment every scope's memory root
// contains, per spec §3/§4.5 (`<root>/.claude/memory[...]`).
const memoryDirMarker = ".claude/memory"

// underMemoryDir reports whether p resolves to a path at or beneath a
// `.claude/memory` directory, using prefix+separator matching (never a
// bare substring test) so "memory-notes" is not mistaken for "memory"
// (spec §4.12).
func underMemoryDir(p string) bool {
	clean := filepath.ToSlash(filepath.Clean(p))
	idx := strings.Index(clean, memoryDirMarker)
	if idx < 0 {
		return false
	}
	if idx > 0 && clean[idx-1] != '/' {
		return false
	}
	rest := clean[idx+len(memoryDirMarker):]
	return rest == "" || rest[0] == '/'
}

// memoryCLINames are the binary names of the memory CLI itself, which
// must always be allowed to touch the memory directory (spec §4.12).
var memoryCLINames = map[string]bool{
	"memkeep": true, "memkeep-hook": true, "memkeep-mcp": true,
}

// EvaluateTool decides whether a structured tool call (Read/Write/Edit/
// etc. with a resolved file_path) may proceed.
func EvaluateTool(toolName, filePath string) Decision {
	if readOnlyTools[toolName] {
		return allow()
	}
	if !writeTools[toolName] {
		return allow()
	}
	if filePath == "" {
		return allow()
	}
	if underMemoryDir(filePath) {
		return block("protected memory directory: " + filePath)
	}
	return allow()
}

// EvaluateShell decides whether a shell command may proceed, by
// inspecting its normalised text for redirects or destructive verbs
// that target a memory directory.
func EvaluateShell(command string) Decision {
	norm := strings.TrimSpace(command)
	if norm == "" {
		return allow()
	}
	if !mentionsMemoryDir(norm) {
		return allow()
	}

	fields := strings.Fields(norm)
	if len(fields) > 0 {
		verb := fields[0]
		if verb == "git" && len(fields) > 1 && fields[1] == "rm" && containsFlag(fields, "--cached") {
			return allow()
		}
		if memoryCLINames[filepath.Base(verb)] {
			return allow()
		}
	}

	if redirectPattern.MatchString(norm) && targetsMemoryDir(norm) {
		return block("shell command redirects into protected memory directory")
	}

	for _, verb := range destructiveVerbs {
		if commandInvokesVerb(norm, verb) {
			return block("shell command (" + verb + ") targets protected memory directory")
		}
	}

	if len(fields) > 0 && readOnlyShellVerbs[fields[0]] {
		return allow()
	}

	return allow()
}

func mentionsMemoryDir(command string) bool {
	return strings.Contains(filepath.ToSlash(command), memoryDirMarker)
}

// targetsMemoryDir is a best-effort check that some token in the
// command resolves under the memory directory; it reuses the same
// prefix+separator rule as underMemoryDir on each whitespace-separated
// token.
func targetsMemoryDir(command string) bool {
	for _, tok := range strings.Fields(command) {
		tok = strings.Trim(tok, `"'`)
		if underMemoryDir(tok) {
			return true
		}
	}
	return false
}

func commandInvokesVerb(command, verb string) bool {
	fields := strings.Fields(command)
	for i, f := range fields {
		if f != verb {
			continue
		}
		for _, rest := range fields[i+1:] {
			rest = strings.Trim(rest, `"'`)
			if underMemoryDir(rest) {
				return true
			}
		}
	}
	return false
}

func containsFlag(fields []string, flag string) bool {
	for _, f := range fields {
		if f == flag {
			return true
		}
	}
	return false
}
