// Package hook implements the hook dispatcher (C14, spec §4.14): reads a
// single JSON event on stdin, dispatches it to a handler by event type,
// and emits an allow/warn/block decision. Grounded on wingthing's cobra
// command dispatch in cmd/wt/main.go (a name -> handler map invoked off
// parsed input), adapted from a long-lived CLI process to a short-lived,
// panic-safe, stdin/stdout protocol handler.
package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Input is the event read from stdin (spec §6 "Hook event I/O").
type Input struct {
	HookEventName  string         `json:"hook_event_name"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
	SessionID      string         `json:"session_id"`
	Cwd            string         `json:"cwd"`
	PermissionMode string         `json:"permission_mode"`
}

// Verdict is the decision kind a handler returns (spec §4.14).
type Verdict int

const (
	VerdictAllow Verdict = iota
	VerdictWarn
	VerdictBlock
)

// ExitCode maps a verdict to the dispatcher's process exit code (spec §4.14).
func (v Verdict) ExitCode() int {
	switch v {
	case VerdictWarn:
		return 1
	case VerdictBlock:
		return 2
	default:
		return 0
	}
}

// Result is a handler's outcome: exactly one of Allow (with optional
// additional context), Warn (with a message), or Block (with a message).
type Result struct {
	Verdict           Verdict
	Message           string
	AdditionalContext string
}

// Allow builds an allow result, optionally carrying additional context
// to inject into the assistant's view.
func Allow(additionalContext string) Result {
	return Result{Verdict: VerdictAllow, AdditionalContext: additionalContext}
}

// Warn builds a warn result.
func Warn(message string) Result {
	return Result{Verdict: VerdictWarn, Message: message}
}

// Block builds a block result.
func Block(message string) Result {
	return Result{Verdict: VerdictBlock, Message: message}
}

// Handler processes one Input and returns a Result. Handlers may panic;
// the dispatcher converts that into an Allow, so a bug here can never
// crash the host (spec §4.14, §7 "Internal -> Allow").
type Handler func(Input) Result

// sessionLifecycleEvents emit plain-text context rather than the
// structured hookSpecificOutput envelope (spec §4.14).
var sessionLifecycleEvents = map[string]bool{
	"SessionStart": true,
	"SessionEnd":   true,
}

// Dispatch reads one JSON document from r, dispatches it to the handler
// registered for its hook_event_name, and writes the resulting decision:
// a warn/block message goes to stderr (spec §7: "message on stderr"),
// allowed additional context goes to stdout as the single JSON document
// the host expects (spec §4.14). It returns the process exit code the
// caller should use.
//
// Absent stdin input is treated as a no-op allow event (spec §4.14). A
// forked session (permission_mode == "default") short-circuits to allow
// immediately, without invoking any handler, to prevent recursive hook
// invocation.
func Dispatch(r io.Reader, stdout, stderr io.Writer, handlers map[string]Handler) int {
	data, err := io.ReadAll(r)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return VerdictAllow.ExitCode()
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return VerdictAllow.ExitCode()
	}

	if in.PermissionMode == "default" {
		return VerdictAllow.ExitCode()
	}

	handler, ok := handlers[in.HookEventName]
	if !ok {
		return VerdictAllow.ExitCode()
	}

	result := invokeSafely(handler, in)
	writeResult(stdout, stderr, in, result)
	return result.Verdict.ExitCode()
}

// invokeSafely runs handler, converting any panic into an Allow result
// (spec §4.14: "the dispatcher converts a handler panic/exception into
// Allow — never crash the host").
func invokeSafely(handler Handler, in Input) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Allow("")
		}
	}()
	return handler(in)
}

type hookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

type hookOutputEnvelope struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

func writeResult(stdout, stderr io.Writer, in Input, result Result) {
	if result.Verdict == VerdictBlock || result.Verdict == VerdictWarn {
		fmt.Fprintln(stderr, result.Message)
		return
	}
	if result.AdditionalContext == "" {
		return
	}
	if sessionLifecycleEvents[in.HookEventName] {
		fmt.Fprintln(stdout, result.AdditionalContext)
		return
	}
	envelope := hookOutputEnvelope{HookSpecificOutput: hookSpecificOutput{
		HookEventName:     in.HookEventName,
		AdditionalContext: result.AdditionalContext,
	}}
	data, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	fmt.Fprintln(stdout, string(data))
}
