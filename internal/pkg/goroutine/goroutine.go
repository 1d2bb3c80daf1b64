// Package goroutine runs background work with a concurrency ceiling,
// panic recovery and a single place to wait for shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/bazaar/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine: manager closed")

// ErrLimitReached is returned by Go when every slot is busy.
var ErrLimitReached = errors.New("goroutine: limit reached")

// Manager tracks long-lived goroutines (message consumers) and collects
// their errors.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewManager creates a Manager that runs at most limit goroutines at once.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, limit)}
}

// Go starts fn unless the manager is closed or full. A panic in fn is
// recovered, logged and recorded as an error.
func (m *Manager) Go(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached", "name", name)
		return ErrLimitReached
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() { <-m.sema }()

		if err := m.run(ctx, name, fn); err != nil && !errors.Is(err, context.Canceled) {
			m.mu.Lock()
			m.errs = append(m.errs, fmt.Errorf("%s: %w", name, err))
			m.mu.Unlock()
		}
	}()

	return nil
}

func (m *Manager) run(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "name", name, "panic", rvr,
				"stack", stacktrace.InternalPaths(debug.Stack()))
			err = fmt.Errorf("panic: %v", rvr)
		}
	}()

	return fn(ctx)
}

// Wait closes the manager to new work, blocks until running goroutines
// return and joins their errors.
func (m *Manager) Wait() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
