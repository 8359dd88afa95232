package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/memkeep/memkeep/internal/session"
)

// persistedSession is the on-disk shape of a session's state file
// (memkeep-session-<session_id>.json in the temp dir): the hook binary
// is re-exec'd once per event, so session.State (spec §4.13) has to be
// rehydrated from disk between invocations, keyed by the host's
// session_id.
type persistedSession struct {
	StartedAt time.Time `json:"startedAt"`
	Shown     []string  `json:"shown"`
}

func sessionFilePath(sessionID string) string {
	return filepath.Join(os.TempDir(), "memkeep-session-"+sessionID+".json")
}

// loadSession rehydrates session state for sessionID, starting a fresh
// one (stamped at now) if no file exists yet.
func loadSession(sessionID string, now time.Time) *session.State {
	data, err := os.ReadFile(sessionFilePath(sessionID))
	if err != nil {
		return session.New(now)
	}
	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return session.New(now)
	}
	return session.Restore(p.StartedAt, p.Shown)
}

// saveSession persists sess's snapshot so the next hook invocation for
// the same session_id can rehydrate it. Concurrent tool calls in the same
// session can each spawn a hook process, so the write goes through a
// uniquely-named temp file (a fixed ".tmp" suffix would let two
// concurrent saves collide) before an atomic rename into place.
func saveSession(sessionID string, sess *session.State) error {
	p := persistedSession{StartedAt: sess.StartedAt(), Shown: sess.Snapshot()}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	target := sessionFilePath(sessionID)
	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// clearSession removes a session's persisted state file (spec §4.13:
// SessionEnd clears tracking).
func clearSession(sessionID string) error {
	err := os.Remove(sessionFilePath(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
