package hook

import (
	"bytes"
	"strings"
	"testing"
)

func TestDispatchEmptyStdinAllows(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Dispatch(strings.NewReader(""), &stdout, &stderr, map[string]Handler{})
	if code != 0 {
		t.Fatalf("expected allow exit code for empty stdin, got %d", code)
	}
}

func TestDispatchUnknownEventAllows(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Dispatch(strings.NewReader(`{"hook_event_name":"Unknown"}`), &stdout, &stderr, map[string]Handler{
		"PreToolUse": func(Input) Result { return Block("should not run") },
	})
	if code != 0 {
		t.Fatalf("expected allow for unregistered event, got %d", code)
	}
}

func TestDispatchForkedSessionShortCircuits(t *testing.T) {
	var stdout, stderr bytes.Buffer
	called := false
	code := Dispatch(strings.NewReader(`{"hook_event_name":"PreToolUse","permission_mode":"default"}`), &stdout, &stderr, map[string]Handler{
		"PreToolUse": func(Input) Result { called = true; return Block("nope") },
	})
	if code != 0 {
		t.Fatalf("expected allow for forked session, got %d", code)
	}
	if called {
		t.Fatal("expected handler not to be invoked for a forked session")
	}
}

func TestDispatchBlockWritesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Dispatch(strings.NewReader(`{"hook_event_name":"PreToolUse"}`), &stdout, &stderr, map[string]Handler{
		"PreToolUse": func(Input) Result { return Block("protected path") },
	})
	if code != 2 {
		t.Fatalf("expected block exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "protected path") {
		t.Fatalf("expected block message on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout for a block, got %q", stdout.String())
	}
}

func TestDispatchAllowWithContextWritesJSONEnvelope(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Dispatch(strings.NewReader(`{"hook_event_name":"PreToolUse"}`), &stdout, &stderr, map[string]Handler{
		"PreToolUse": func(Input) Result { return Allow("some context") },
	})
	if code != 0 {
		t.Fatalf("expected allow exit code, got %d", code)
	}
	if !strings.Contains(stdout.String(), "hookSpecificOutput") {
		t.Fatalf("expected structured envelope on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "some context") {
		t.Fatalf("expected additional context in stdout, got %q", stdout.String())
	}
}

func TestDispatchSessionLifecycleEventsEmitPlainText(t *testing.T) {
	var stdout, stderr bytes.Buffer
	Dispatch(strings.NewReader(`{"hook_event_name":"SessionStart"}`), &stdout, &stderr, map[string]Handler{
		"SessionStart": func(Input) Result { return Allow("plain text context") },
	})
	if strings.Contains(stdout.String(), "hookSpecificOutput") {
		t.Fatalf("expected plain text for session lifecycle events, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "plain text context") {
		t.Fatalf("expected the context itself to appear, got %q", stdout.String())
	}
}

func TestDispatchRecoversFromHandlerPanic(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Dispatch(strings.NewReader(`{"hook_event_name":"PreToolUse"}`), &stdout, &stderr, map[string]Handler{
		"PreToolUse": func(Input) Result { panic("boom") },
	})
	if code != 0 {
		t.Fatalf("expected a handler panic to degrade to allow, got exit code %d", code)
	}
}

func TestCleanupRegistryRunsAllCallbacksEvenIfOnePanics(t *testing.T) {
	reg := NewCleanupRegistry()
	var ran []int
	reg.Register(func() { ran = append(ran, 1) })
	reg.Register(func() { panic("boom") })
	reg.Register(func() { ran = append(ran, 3) })
	reg.RunAll()
	if len(ran) != 2 {
		t.Fatalf("expected both non-panicking callbacks to run, got %v", ran)
	}
}
