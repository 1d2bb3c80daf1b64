package messaging

import (
	"context"
	"errors"
	"io"

	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
)

var (
	// ErrClosed is returned by a client after Close.
	ErrClosed = errors.New("messaging: client is closed")
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrGroupRequired is returned when Subscribe is called without a group.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrHandlerRequired is returned when Subscribe is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging publishes and consumes messages.
type Messaging interface {
	io.Closer

	// Publish sends msg to topic and returns once the broker accepted it.
	Publish(ctx context.Context, topic string, msg Message) error

	// Subscribe delivers every message on topic to h, load-balanced across
	// subscribers sharing group. It blocks until ctx is done or the client
	// is closed.
	Subscribe(ctx context.Context, topic, group string, h Handler) error
}

// Handler processes a received message. A non-nil error asks the broker for
// redelivery where the broker supports it.
type Handler func(ctx context.Context, msg Message) error

// Message is a broker-agnostic message.
type Message struct {
	// Key is used by Kafka for partitioning. Other brokers ignore it.
	Key     []byte
	Body    []byte
	Headers map[string]string
}

func validateSubscribe(topic, group string, h Handler) error {
	switch {
	case topic == "":
		return ErrTopicRequired
	case group == "":
		return ErrGroupRequired
	case h == nil:
		return ErrHandlerRequired
	}
	return nil
}

// outgoingHeaders copies msg headers and stamps the correlation id of ctx.
func outgoingHeaders(ctx context.Context, msg Message) map[string]string {
	out := make(map[string]string, len(msg.Headers)+1)
	for k, v := range msg.Headers {
		if k != "" {
			out[k] = v
		}
	}
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		if _, ok := out[instrument.HeaderCorrelationID]; !ok {
			out[instrument.HeaderCorrelationID] = cid
		}
	}
	return out
}

// incomingContext restores the correlation id carried by msg.
func incomingContext(ctx context.Context, msg Message) context.Context {
	if cid := msg.Headers[instrument.HeaderCorrelationID]; cid != "" {
		return instrument.SetCorrelationID(ctx, cid)
	}
	return ctx
}
