package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start serves HTTP on the configured address. The returned channel is
// closed when a termination signal arrives or the listener fails, whichever
// happens first.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	sigCtx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		slog.Info("http server listening",
			"address", a.httpServer.Addr,
			"store", a.config.GetString("modules.account.store"),
			"delivery", a.config.GetString("modules.account.delivery"),
		)

		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			a.cancel()
		}
	}()

	go func() {
		<-sigCtx.Done()
		stop()
		a.cancel()
		slog.Info("termination requested, draining")
		close(done)
	}()

	return done
}

// Serve runs the HTTP server on l. Used by tests that need an ephemeral port.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- a.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// ShutdownTimeout bounds Stop.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetSecond("app.shutdown_timeout_seconds")
}

// Stop cancels consumers, drains HTTP, waits for background work and then
// releases resources in the reverse order they were acquired.
func (a *App) Stop(ctx context.Context) {
	started := time.Now()
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to drain http server", "error", err)
	}

	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "background work ended with error", "error", err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application stopped", "took", time.Since(started).String())
}
