// Command memkeep-mcp exposes memkeep's memory store to an MCP client
// over stdio (C20, SPEC_FULL §4.18): memory_search, memory_read, and
// memory_related, all read-only — no write operation is exposed over
// MCP. Grounded on the mark3labs/mcp-go dependency (agentic-research-mache's
// go.mod) for the server/tool API; that repo's own source never
// exercised it, so this wiring follows the library's documented
// NewMCPServer/AddTool/ServeStdio shape directly rather than a specific
// example file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/graph"
	"github.com/memkeep/memkeep/internal/logger"
	"github.com/memkeep/memkeep/internal/memindex"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/scope"
	"github.com/memkeep/memkeep/internal/storagefs"
)

type mcpApp struct {
	cfg      *configWatcher
	resolver *scope.Resolver
	store    *memory.Store
	roots    map[scope.Scope]memory.ScopeRoot
}

func newMCPApp() *mcpApp {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()

	resolver := &scope.Resolver{
		Cwd:               cwd,
		GlobalRoot:        filepath.Join(home, ".memkeep"),
		EnterpriseEnabled: os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH") != "",
		EnterprisePath:    os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH"),
	}

	configPaths := []string{
		filepath.Join(home, ".memkeep", "config.yaml"),
		filepath.Join(cwd, ".claude", "memory", "config.yaml"),
	}
	cfg := config.Load(logger.Noop(), configPaths...)

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

	return &mcpApp{cfg: newConfigWatcher(cfg, configPaths), resolver: resolver, store: memory.New(roots), roots: roots}
}

func main() {
	a := newMCPApp()
	a.cfg.watch()
	s := server.NewMCPServer("memkeep", "1.0.0")

	s.AddTool(mcp.NewTool("memory_search",
		mcp.WithDescription("Keyword search over memory titles and tags across readable scopes"),
		mcp.WithString("query", mcp.Required(), mcp.Description("search text")),
		mcp.WithString("type", mcp.Description("restrict to one memory type")),
		mcp.WithNumber("limit", mcp.Description("maximum results (default 10)")),
	), a.handleMemorySearch)

	s.AddTool(mcp.NewTool("memory_read",
		mcp.WithDescription("Read one memory's full body and metadata by id"),
		mcp.WithString("id", mcp.Required(), mcp.Description("memory id")),
	), a.handleMemoryRead)

	s.AddTool(mcp.NewTool("memory_related",
		mcp.WithDescription("Expand the relationship graph from a memory out to a given depth"),
		mcp.WithString("id", mcp.Required(), mcp.Description("memory id")),
		mcp.WithNumber("depth", mcp.Description("maximum hop distance (default 1)")),
	), a.handleMemoryRelated)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resultJSON renders v as the tool's single text content block — the
// MCP result shape every client understands, versus a server-specific
// structured-content extension.
func resultJSON(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

func (a *mcpApp) handleMemorySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	typeFl := req.GetString("type", "")
	limit := int(req.GetFloat("limit", 10))

	priority := a.resolver.Readable()
	all, _, err := a.store.List(memory.ListFilter{Type: typeFl}, priority)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matched := filterEntries(all, query)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return resultJSON(map[string]any{"results": matched}), nil
}

func (a *mcpApp) handleMemoryRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	for _, sc := range a.resolver.Readable() {
		mem, err := a.store.Read(sc, id)
		if err != nil {
			continue
		}
		return resultJSON(map[string]any{
			"id": mem.ID, "type": mem.Header.Type, "title": mem.Header.Title,
			"tags": mem.Header.Tags, "severity": mem.Header.Severity,
			"created": mem.Header.Created, "updated": mem.Header.Updated,
			"scope": string(mem.Scope), "body": mem.Body,
		}), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("memory %q not found", id)), nil
}

func (a *mcpApp) handleMemoryRelated(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	depth := int(req.GetFloat("depth", 1))

	for _, sc := range a.resolver.Readable() {
		root, ok := a.roots[sc]
		if !ok {
			continue
		}
		if _, err := a.store.Read(sc, id); err != nil {
			continue
		}
		hops, edges := graph.New(root.FS).Expand(id, depth)
		return resultJSON(map[string]any{
			"root": id, "nodes": hops, "edges": edges,
		}), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("memory %q not found", id)), nil
}

func filterEntries(entries []memindex.Entry, query string) []memindex.Entry {
	if query == "" {
		return entries
	}
	needle := strings.ToLower(query)
	var out []memindex.Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), needle) || tagsContainFold(e.Tags, needle) {
			out = append(out, e)
		}
	}
	return out
}

func tagsContainFold(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
