// Package session tracks per-session injection state so the same memory
// is not shown to the assistant twice within one coding session (spec
// §4.13). The hook dispatcher runs as a short-lived process per event,
// so a session spans many processes; Snapshot/Restore let a caller
// persist state between invocations keyed by session id.
package session

import (
	"sync"
	"time"
)

// State records which memories have already been shown in this session.
type State struct {
	mu        sync.Mutex
	startedAt time.Time
	shown     map[string]bool
}

// New starts a fresh, empty session state.
func New(now time.Time) *State {
	return &State{startedAt: now, shown: make(map[string]bool)}
}

// key combines id and type so that, in principle, two different memory
// types could reuse the same id without colliding (spec §4.13).
func key(id, memType string) string {
	return id + ":" + memType
}

// Record marks a memory as shown.
func (s *State) Record(id, memType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown[key(id, memType)] = true
}

// Has reports whether a memory has already been shown this session.
func (s *State) Has(id, memType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[key(id, memType)]
}

// Clear resets all shown-memory tracking, keeping the session's start
// time.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = make(map[string]bool)
}

// StartedAt returns when this session state was created.
func (s *State) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Count returns how many distinct memories have been shown.
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shown)
}

// Snapshot returns every "id:type" key recorded as shown, for a caller to
// persist between process invocations.
func (s *State) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.shown))
	for k := range s.shown {
		keys = append(keys, k)
	}
	return keys
}

// Restore rebuilds a State that started at startedAt with the given
// previously-snapshotted "id:type" keys already marked shown.
func Restore(startedAt time.Time, keys []string) *State {
	shown := make(map[string]bool, len(keys))
	for _, k := range keys {
		shown[k] = true
	}
	return &State{startedAt: startedAt, shown: shown}
}
