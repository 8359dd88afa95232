package main

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/memkeep/memkeep/internal/config"
	"github.com/memkeep/memkeep/internal/logger"
)

// configWatcher hot-reloads the MCP server's thresholds when the user
// edits config.yaml, since this server (unlike the per-event CLI and
// hook binaries) stays up for the lifetime of the client connection.
type configWatcher struct {
	mu    sync.RWMutex
	cfg   config.Config
	paths []string
}

func newConfigWatcher(initial config.Config, paths []string) *configWatcher {
	return &configWatcher{cfg: initial, paths: paths}
}

func (w *configWatcher) current() config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// watch starts watching each configured directory (fsnotify watches
// directories, not individual files, so edits that replace the file via
// rename still trigger a reload) and reloads on any write/create/rename
// event touching a watched path. It runs until the process exits.
func (w *configWatcher) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}

	dirs := map[string]bool{}
	for _, p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		_ = watcher.Add(dir)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				w.reload()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

func (w *configWatcher) reload() {
	cfg := config.Load(logger.Noop(), w.paths...)
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	log.Printf("memkeep-mcp: reloaded configuration")
}
