package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a messaging implementation backed by core NATS queue groups.
// Core NATS has no redelivery, so handler failures are only logged.
type NATS struct {
	conn   *nats.Conn
	closed *atomic.Bool

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewNATS connects to the configured server.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn, closed: atomic.NewBool(false)}, nil
}

// Close drains subscriptions and closes the connection.
func (n *NATS) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	n.mu.Lock()
	subs := append([]*nats.Subscription{}, n.subs...)
	n.mu.Unlock()

	var closeErr error
	for _, sub := range subs {
		closeErr = errors.Join(closeErr, sub.Drain())
	}
	closeErr = errors.Join(closeErr, n.conn.Drain())
	n.conn.Close()
	return closeErr
}

// Publish sends msg to the subject named topic and flushes.
func (n *NATS) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.closed.Load() {
		return ErrClosed
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	// Header.Set would canonicalize keys and break exact lookups on receive.
	for k, v := range outgoingHeaders(ctx, msg) {
		nmsg.Header[k] = []string{v}
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// Subscribe joins the queue group and handles messages sequentially until
// ctx is done.
func (n *NATS) Subscribe(ctx context.Context, topic, group string, h Handler) error {
	if err := validateSubscribe(topic, group, h); err != nil {
		return err
	}
	if n.closed.Load() {
		return ErrClosed
	}

	msgCh := make(chan *nats.Msg, 64)
	sub, err := n.conn.ChanQueueSubscribe(topic, group, msgCh)
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	n.mu.Lock()
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), sub.Drain())
		case m, ok := <-msgCh:
			if !ok {
				return nil
			}
			msg := Message{Body: m.Data, Headers: make(map[string]string, len(m.Header))}
			for k, v := range m.Header {
				if len(v) > 0 {
					msg.Headers[k] = v[0]
				}
			}
			//nolint:errcheck // logged by dispatch
			_ = dispatch(ctx, DriverNATS, topic, h, msg)
		}
	}
}
