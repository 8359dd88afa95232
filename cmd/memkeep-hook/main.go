package main

import (
	"os"

	"github.com/memkeep/memkeep/internal/hook"
)

func main() {
	cleanup := hook.NewCleanupRegistry()
	stop := cleanup.WatchSignals()

	handlers := map[string]hook.Handler{
		"PreToolUse":   handlePreToolUse,
		"PostToolUse":  handlePostToolUse,
		"SessionStart": handleSessionStart,
		"SessionEnd":   handleSessionEnd,
	}

	code := hook.Dispatch(os.Stdin, os.Stdout, os.Stderr, handlers)
	stop()
	cleanup.RunAll()
	os.Exit(code)
}
