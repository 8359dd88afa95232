// Package slug derives stable, collision-resolved memory identifiers from
// a title and optional type prefix (spec §4.2).
package slug

import (
	"fmt"
	"strings"
)

const maxLen = 80

// Generate derives a slug from title, optionally prefixed with
// "<type>-". The result matches ^[a-z0-9]+(-[a-z0-9]+)*$ and is at most
// 80 characters.
func Generate(title, memType string) string {
	s := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	s = collapseHyphens(b.String())

	if s == "" {
		s = "untitled"
	}
	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}

	memType = strings.TrimSpace(memType)
	if memType != "" {
		prefix := memType + "-"
		if !strings.HasPrefix(s, prefix) {
			s = prefix + s
			if len(s) > maxLen {
				s = strings.Trim(s[:maxLen], "-")
			}
		}
	}
	return s
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}

// ResolveCollision returns a slug guaranteed not to be in taken, trying
// "<slug>-1", "<slug>-2", ... and returning the smallest free suffix.
// Deterministic given the taken set.
func ResolveCollision(candidate string, taken map[string]bool) string {
	if !taken[candidate] {
		return candidate
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !taken[next] {
			return next
		}
	}
}
