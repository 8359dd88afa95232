// Command memkeep-hook is the hook dispatcher entrypoint (C14, spec
// §4.14): it wires internal/hook.Dispatch to the process's real stdin,
// stdout, and stderr, registering handlers for PreToolUse, PostToolUse,
// SessionStart, and SessionEnd that call internal/protect and
// internal/injector.
package main

import (
	"os"
	"path/filepath"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/logger"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/scope"
	"github.com/memkeep/memkeep/internal/storagefs"
)

// app bundles the dependencies a hook handler needs, bootstrapped from
// the event's own cwd rather than the process's (the host always passes
// cwd explicitly, spec §6).
type app struct {
	cfg      config.Config
	log      *logger.Logger
	resolver *scope.Resolver
	store    *memory.Store
	roots    map[scope.Scope]memory.ScopeRoot
}

func newApp(cwd string) *app {
	home, _ := os.UserHomeDir()
	globalRoot := filepath.Join(home, ".memkeep")

	resolver := &scope.Resolver{
		Cwd:               cwd,
		GlobalRoot:        globalRoot,
		EnterpriseEnabled: os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH") != "",
		EnterprisePath:    os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH"),
	}

	log := logger.Noop()
	if l, err := logger.New("warn", ""); err == nil {
		log = l
	}

	cfg := config.Load(log,
		filepath.Join(home, ".memkeep", "config.yaml"),
		filepath.Join(cwd, ".claude", "memory", "config.yaml"),
	)

	roots := map[scope.Scope]memory.ScopeRoot{}
	for _, sc := range []scope.Scope{scope.Local, scope.Project, scope.Global} {
		dir, err := resolver.RootFor(sc)
		if err != nil {
			continue
		}
		roots[sc] = memory.ScopeRoot{Scope: sc, FS: storagefs.OnDisk(dir), Dir: dir}
	}
	if dir, err := resolver.RootFor(scope.Enterprise); err == nil {
		roots[scope.Enterprise] = memory.ScopeRoot{Scope: scope.Enterprise, FS: storagefs.OnDisk(dir), Dir: dir}
	}

	store := memory.New(roots)
	store.GitRootFor = func(dir string) (string, bool) {
		r := &scope.Resolver{Cwd: dir}
		return r.GitRoot()
	}

	return &app{cfg: cfg, log: log, resolver: resolver, store: store, roots: roots}
}
