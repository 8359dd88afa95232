// Package scope implements the four-tier scope resolver (spec §4.5):
// enterprise, local, project, global. Grounded on wingthing's
// internal/config GetProjectDir, which walks up from cwd looking for a
// project marker directory.
package scope

import (
	"os"
	"path/filepath"

	"github.com/memkeep/memkeep/internal/memerr"
)

// Scope is a storage tier.
type Scope string

const (
	Enterprise Scope = "enterprise"
	Local      Scope = "local"
	Project    Scope = "project"
	Global     Scope = "global"
)

// Resolver computes storage roots for each scope given the process's
// environment (spec §4.5).
type Resolver struct {
	Cwd               string
	GlobalRoot        string
	EnterpriseEnabled bool
	EnterprisePath    string
	// ConfiguredDefault, when non-empty, is used as the default scope
	// ahead of the git-root-presence heuristic.
	ConfiguredDefault Scope
}

// GitRoot walks up from r.Cwd looking for a ".git" entry, returning the
// containing directory. ok is false when none is found before the
// filesystem root.
func (r *Resolver) GitRoot() (dir string, ok bool) {
	dir = r.Cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// projectRoot is the git root if found, else cwd (spec §4.5: "<git-root
// or cwd>").
func (r *Resolver) projectRoot() string {
	if root, ok := r.GitRoot(); ok {
		return root
	}
	return r.Cwd
}

// RootFor returns the storage directory for scope, or an error if the
// scope is unavailable.
func (r *Resolver) RootFor(s Scope) (string, error) {
	switch s {
	case Enterprise:
		if !r.EnterpriseEnabled {
			return "", memerr.New(memerr.KindConfiguration, "scope: enterprise scope disabled")
		}
		if r.EnterprisePath == "" {
			return "", memerr.New(memerr.KindConfiguration, "scope: enterprise scope unavailable: no path configured")
		}
		info, err := os.Stat(r.EnterprisePath)
		if err != nil || !info.IsDir() {
			return "", memerr.New(memerr.KindConfiguration, "scope: enterprise scope unavailable: %s is not a readable directory", r.EnterprisePath)
		}
		return r.EnterprisePath, nil
	case Local:
		return filepath.Join(r.projectRoot(), ".claude", "memory", "local"), nil
	case Project:
		return filepath.Join(r.projectRoot(), ".claude", "memory"), nil
	case Global:
		if r.GlobalRoot == "" {
			return "", memerr.New(memerr.KindConfiguration, "scope: no global root configured")
		}
		return r.GlobalRoot, nil
	default:
		return "", memerr.New(memerr.KindValidation, "scope: unknown scope %q", s)
	}
}

// Default resolves which scope to use when none was explicitly requested
// (spec §4.5): the configured default, else "project" if inside a git
// repository, else "global".
func (r *Resolver) Default() Scope {
	if r.ConfiguredDefault != "" {
		return r.ConfiguredDefault
	}
	if _, ok := r.GitRoot(); ok {
		return Project
	}
	return Global
}

// Resolve returns the effective scope and its storage root for a
// (possibly empty) requested scope.
func (r *Resolver) Resolve(requested Scope) (Scope, string, error) {
	s := requested
	if s == "" {
		s = r.Default()
	}
	root, err := r.RootFor(s)
	if err != nil {
		return "", "", err
	}
	return s, root, nil
}

// Readable returns every scope readable from the current position, in
// priority order [enterprise?, local, project, global], omitting
// enterprise when unavailable.
func (r *Resolver) Readable() []Scope {
	var out []Scope
	if _, err := r.RootFor(Enterprise); err == nil {
		out = append(out, Enterprise)
	}
	out = append(out, Local, Project, Global)
	return out
}
