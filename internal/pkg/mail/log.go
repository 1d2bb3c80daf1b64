package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Log is a Mail that writes messages to the default logger instead of
// delivering them. It also keeps the sent messages for inspection.
type Log struct {
	from string

	mu   sync.Mutex
	sent []Message
}

// NewLog constructs a Log mailer with a default sender.
func NewLog(from string) *Log {
	return &Log{from: from}
}

// Send logs msg.
func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := msg.check(l.from)
	if err != nil {
		return err
	}
	msg.From = from

	l.mu.Lock()
	l.sent = append(l.sent, msg)
	l.mu.Unlock()

	slog.InfoContext(ctx, "mail sent to log", "from", from, "to", msg.To, "subject", msg.Subject, "body", msg.TextBody)
	return nil
}

// Sent returns a copy of every message sent so far.
func (l *Log) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.sent...)
}

// Close implements io.Closer.
func (*Log) Close() error { return nil }
