// Package main implements the memkeep CLI (SPEC_FULL §2 "added CLI"):
// the cobra command tree over memory CRUD, graph, and similarity
// operations. Grounded on wingthing's cmd/wt/main.go, which built a
// cobra root command and wired a shared client from config in each
// subcommand; adapted here to wire a shared app bootstrap (config,
// logger, scope resolver, memory store) instead of an HTTP client.
package main

import (
	"os"
	"path/filepath"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/embedding"
	"github.com/memkeep/memkeep/internal/logger"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/scope"
	"github.com/memkeep/memkeep/internal/storagefs"
)

// exit codes per spec §6.
const (
	exitOK           = 0
	exitWarning      = 1
	exitProtectOrBad = 2
	exitIO           = 3
)

// app bundles the shared dependencies every subcommand needs.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	resolver *scope.Resolver
	store    *memory.Store
	roots    map[scope.Scope]memory.ScopeRoot
}

// newApp wires configuration, logging, the scope resolver, and a memory
// store rooted at each scope's real on-disk directory.
func newApp() (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	home, _ := os.UserHomeDir()
	globalRoot := filepath.Join(home, ".memkeep")

	resolver := &scope.Resolver{
		Cwd:               cwd,
		GlobalRoot:        globalRoot,
		EnterpriseEnabled: os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH") != "",
		EnterprisePath:    os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH"),
	}

	log, err := logger.New("info", "")
	if err != nil {
		return nil, err
	}

	configPaths := []string{
		filepath.Join(home, ".memkeep", "config.yaml"),
		filepath.Join(cwd, ".claude", "memory", "config.yaml"),
	}
	cfg := config.Load(log, configPaths...)

	roots := map[scope.Scope]memory.ScopeRoot{}
	for _, sc := range []scope.Scope{scope.Local, scope.Project, scope.Global} {
		dir, err := resolver.RootFor(sc)
		if err != nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
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

	return &app{cfg: cfg, log: log, resolver: resolver, store: store, roots: roots}, nil
}

// resolveScope parses a --scope flag value (empty means "use the
// resolver's default").
func (a *app) resolveScope(requested string) (scope.Scope, error) {
	sc, _, err := a.resolver.Resolve(scope.Scope(requested))
	return sc, err
}

// readableScopesInPriority returns the scopes list/search commands merge
// over, in shadowing priority order (spec §4.5).
func (a *app) readableScopesInPriority() []scope.Scope {
	return a.resolver.Readable()
}

// embedder builds the configured embedding provider. When none is
// available it returns a KindEmbeddingProvider error and prints nothing;
// the semantic command turns that error into a warning and a
// keyword-search fallback (spec §7), suggest-links exits with a warning,
// and quality skips its duplicate check.
func (a *app) embedder() (embedding.Embedder, error) {
	return embedding.NewFromProvider("auto", a.cfg.EmbeddingModel, a.cfg.OllamaHost)
}
