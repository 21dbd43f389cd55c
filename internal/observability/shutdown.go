package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ShutdownCoordinator collects named teardown hooks and runs them in
// reverse registration order, so the last component started is the first
// one stopped.
type ShutdownCoordinator struct {
	mu    sync.Mutex
	hooks []shutdownHook
}

type shutdownHook struct {
	name string
	stop func(context.Context) error
}

// Register adds a teardown hook.
func (s *ShutdownCoordinator) Register(name string, stop func(context.Context) error) {
	s.mu.Lock()
	s.hooks = append(s.hooks, shutdownHook{name: name, stop: stop})
	s.mu.Unlock()
}

// Shutdown runs every hook LIFO. All hooks run even when earlier ones
// fail; failures are joined into the returned error.
func (s *ShutdownCoordinator) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	hooks := append([]shutdownHook(nil), s.hooks...)
	s.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		slog.Info("shutting down", "component", h.name)
		if err := h.stop(ctx); err != nil {
			slog.Error("shutdown error", "component", h.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}
