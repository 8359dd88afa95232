package main

import (
	"time"

	"github.com/memkeep/memkeep/internal/hook"
	"github.com/memkeep/memkeep/internal/injector"
	"github.com/memkeep/memkeep/internal/memory"
	"github.com/memkeep/memkeep/internal/pattern"
	"github.com/memkeep/memkeep/internal/protect"
	"github.com/memkeep/memkeep/internal/relevance"
	"github.com/memkeep/memkeep/internal/scope"
)

func stringInput(in map[string]any, key string) string {
	if v, ok := in[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// handlePreToolUse runs path/shell protection (C12, spec §4.12) ahead of
// every tool call, then — if the call is allowed — selects and formats
// relevant memories to inject as additional context (C11, spec §4.11).
func handlePreToolUse(in hook.Input) hook.Result {
	var decision protect.Decision
	switch in.ToolName {
	case "Write", "Edit", "MultiEdit":
		decision = protect.EvaluateTool(in.ToolName, stringInput(in.ToolInput, "file_path"))
	case "Bash":
		decision = protect.EvaluateShell(stringInput(in.ToolInput, "command"))
	default:
		decision = protect.EvaluateTool(in.ToolName, stringInput(in.ToolInput, "file_path"))
	}
	if decision.Blocked {
		return hook.Block(decision.Reason)
	}

	a := newApp(in.Cwd)
	now := time.Now()
	sess := loadSession(in.SessionID, now)

	candidates := collectCandidates(a)
	ev := injector.Event{
		Tool:     in.ToolName,
		FilePath: pattern.Normalize(stringInput(in.ToolInput, "file_path")),
	}

	selected := injector.Select(candidates, ev, a.cfg.Injection, sess, relevance.DefaultWeights(), now)
	injector.Record(sess, selected)
	_ = saveSession(in.SessionID, sess)

	return hook.Allow(injector.Format(selected))
}

// handlePostToolUse has no protection or injection work of its own in
// this system; it exists so the dispatcher has somewhere to route the
// event instead of treating it as unregistered.
func handlePostToolUse(in hook.Input) hook.Result {
	return hook.Allow("")
}

// handleSessionStart loads session-scoped dedup tracking (spec §4.13),
// starting it fresh when nothing is persisted for the session_id yet,
// and saves it.
func handleSessionStart(in hook.Input) hook.Result {
	sess := loadSession(in.SessionID, time.Now())
	_ = saveSession(in.SessionID, sess)
	return hook.Allow("")
}

// handleSessionEnd discards session-scoped dedup tracking so a future
// session_id reuse starts clean (spec §4.13).
func handleSessionEnd(in hook.Input) hook.Result {
	_ = clearSession(in.SessionID)
	return hook.Allow("")
}

// collectCandidates gathers every memory across readable scopes as
// injector.Candidate values, including body text for formatting.
func collectCandidates(a *app) []injector.Candidate {
	priority := a.resolver.Readable()
	entries, _, err := a.store.List(memory.ListFilter{Limit: 0}, priority)
	if err != nil {
		return nil
	}

	out := make([]injector.Candidate, 0, len(entries))
	for _, e := range entries {
		mem, readErr := a.store.Read(scope.Scope(e.Scope), e.ID)
		if readErr != nil {
			continue
		}
		out = append(out, injector.Candidate{
			ID: e.ID, Type: e.Type, Title: e.Title, Tags: e.Tags,
			FilePatterns: pattern.ExtractFilePatterns(e.Tags),
			Updated:      e.Updated, Severity: e.Severity, Body: mem.Body,
		})
	}
	return out
}
