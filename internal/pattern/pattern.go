// Package pattern matches a file path against a pattern set extracted
// from memory tags (spec §4.9): exact, directory-prefix, or glob.
package pattern

import (
	"path"
	"strings"
)

// MatchType is the strength of a match, strongest first for ranking.
type MatchType string

const (
	Exact     MatchType = "exact"
	Directory MatchType = "directory"
	Glob      MatchType = "glob"
	None      MatchType = "none"
)

// Normalize converts a path to forward slashes and strips a leading "./".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return p
}

// ExtractFilePatterns pulls the file/pattern/dir association out of a
// memory's tags (spec §4.9): tags with a "file:", "pattern:", or "dir:"
// prefix contribute their remainder as a pattern.
func ExtractFilePatterns(tags []string) []string {
	var out []string
	for _, t := range tags {
		for _, prefix := range []string{"file:", "pattern:", "dir:"} {
			if strings.HasPrefix(t, prefix) {
				out = append(out, strings.TrimPrefix(t, prefix))
				break
			}
		}
	}
	return out
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// matchOne reports whether a single pattern matches path, and with what
// strength.
func matchOne(p, pat string) MatchType {
	p = Normalize(p)
	pat = Normalize(pat)

	if pat == p {
		return Exact
	}

	if strings.HasSuffix(pat, "/") {
		dir := strings.TrimSuffix(pat, "/")
		if p == dir || strings.HasPrefix(p, dir+"/") {
			return Directory
		}
	} else if !strings.Contains(pat, ".") && !hasGlobMeta(pat) {
		if p == pat || strings.HasPrefix(p, pat+"/") {
			return Directory
		}
	}

	if hasGlobMeta(pat) {
		lowerPat, lowerPath := strings.ToLower(pat), strings.ToLower(p)
		if !strings.Contains(pat, "/") {
			// Bare pattern: match on basename only.
			if ok, _ := path.Match(lowerPat, strings.ToLower(path.Base(p))); ok {
				return Glob
			}
		} else if globMatch(lowerPat, lowerPath) {
			return Glob
		}
	}

	return None
}

// Match returns the strongest match type path achieves against any
// pattern in patterns.
func Match(p string, patterns []string) MatchType {
	best := None
	rank := map[MatchType]int{None: 0, Glob: 1, Directory: 2, Exact: 3}
	for _, pat := range patterns {
		m := matchOne(p, pat)
		if rank[m] > rank[best] {
			best = m
		}
	}
	return best
}

// globMatch matches a "/"-separated pattern against a "/"-separated path,
// where "**" spans zero or more whole path segments and each other
// segment is matched with path.Match (supporting "*", "?", "[...]").
func globMatch(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, name []string) bool {
	if len(pat) == 0 {
		return len(name) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], name) {
			return true
		}
		if len(name) == 0 {
			return false
		}
		return matchSegments(pat, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	ok, err := path.Match(pat[0], name[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], name[1:])
}
