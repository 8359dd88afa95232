package hook

import (
	"os"
	"os/signal"
	"syscall"
)

// CleanupRegistry collects callbacks to run before the process exits,
// whether normally or via SIGTERM/SIGINT (spec §5 "Cancellation":
// "runs all registered cleanup callbacks... then exits 143/130
// respectively").
type CleanupRegistry struct {
	callbacks []func()
}

// NewCleanupRegistry returns an empty registry.
func NewCleanupRegistry() *CleanupRegistry {
	return &CleanupRegistry{}
}

// Register adds a callback to run at cleanup time (e.g. unlinking a
// registered temp file).
func (c *CleanupRegistry) Register(fn func()) {
	c.callbacks = append(c.callbacks, fn)
}

// RunAll invokes every registered callback, most-recently-registered
// first, tolerating panics in any single callback so one broken cleanup
// doesn't block the rest.
func (c *CleanupRegistry) RunAll() {
	for i := len(c.callbacks) - 1; i >= 0; i-- {
		runCallbackSafely(c.callbacks[i])
	}
}

func runCallbackSafely(fn func()) {
	defer func() { recover() }()
	fn()
}

// WatchSignals runs cleanup and exits with the POSIX-conventional
// 128+signal code (143 for SIGTERM, 130 for SIGINT) on receipt of either
// signal. It returns a stop function that cancels the watch without
// exiting, for use in tests or when the caller wants to manage its own
// shutdown instead.
func (c *CleanupRegistry) WatchSignals() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			c.RunAll()
			switch sig {
			case syscall.SIGTERM:
				os.Exit(143)
			case syscall.SIGINT:
				os.Exit(130)
			}
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
