package messaging

import (
	"context"
	"maps"
	"sync"

	"go.uber.org/atomic"
)

type memoryGroup struct {
	ch chan Message
}

// Memory is an in-process bus. Each group on a topic receives every
// message once; subscribers sharing a group compete for it.
type Memory struct {
	mu     sync.Mutex
	groups map[string]map[string]*memoryGroup
	closed *atomic.Bool
	done   chan struct{}

	published *atomic.Int64
}

// NewMemory constructs an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{
		groups:    map[string]map[string]*memoryGroup{},
		closed:    atomic.NewBool(false),
		done:      make(chan struct{}),
		published: atomic.NewInt64(0),
	}
}

// Published reports how many messages were accepted since construction.
func (m *Memory) Published() int64 { return m.published.Load() }

// Close stops every subscriber.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		close(m.done)
	}
	return nil
}

// Groups reports how many consumer groups are registered on topic.
func (m *Memory) Groups(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.groups[topic])
}

// Publish fans msg out to every group registered on topic. A topic without
// subscribers drops the message.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if m.closed.Load() {
		return ErrClosed
	}

	msg.Headers = outgoingHeaders(ctx, msg)

	m.mu.Lock()
	targets := make([]*memoryGroup, 0, len(m.groups[topic]))
	for _, g := range m.groups[topic] {
		targets = append(targets, g)
	}
	m.mu.Unlock()

	for _, g := range targets {
		cp := msg
		cp.Headers = maps.Clone(msg.Headers)
		select {
		case g.ch <- cp:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}

	m.published.Inc()
	return nil
}

// Subscribe consumes topic for group until ctx is done or the bus closes.
// A failed handler gets the message redelivered once more before it is
// dropped.
func (m *Memory) Subscribe(ctx context.Context, topic, group string, h Handler) error {
	if err := validateSubscribe(topic, group, h); err != nil {
		return err
	}
	if m.closed.Load() {
		return ErrClosed
	}

	g := m.group(topic, group)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case msg := <-g.ch:
			if err := dispatch(ctx, DriverMemory, topic, h, msg); err != nil {
				//nolint:errcheck // second failure is already logged by dispatch
				_ = dispatch(ctx, DriverMemory, topic, h, msg)
			}
		}
	}
}

func (m *Memory) group(topic, group string) *memoryGroup {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.groups[topic] == nil {
		m.groups[topic] = map[string]*memoryGroup{}
	}
	g, ok := m.groups[topic][group]
	if !ok {
		g = &memoryGroup{ch: make(chan Message, 64)}
		m.groups[topic][group] = g
	}
	return g
}
