package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/bazaar/internal/pkg/stacktrace"
)

// dispatch runs h with panic recovery and logs a failed handler.
func dispatch(ctx context.Context, driver, topic string, h Handler, msg Message) (err error) {
	ctx = incomingContext(ctx, msg)

	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "topic", topic,
				"panic", rvr, "stack", stacktrace.InternalPaths(debug.Stack()))
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	if err = h(ctx, msg); err != nil {
		slog.WarnContext(ctx, "messaging handler failed", "driver", driver, "topic", topic, "error", err)
	}
	return err
}
