package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type published struct {
	topic string
	msg   messaging.Message
}

type fakeBus struct {
	mu   sync.Mutex
	out  []published
	fail error
}

func (f *fakeBus) Publish(_ context.Context, topic string, msg messaging.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.out = append(f.out, published{topic: topic, msg: msg})
	return nil
}

func (*fakeBus) Subscribe(context.Context, string, string, messaging.Handler) error { return nil }

func (*fakeBus) Close() error { return nil }

type failingMail struct{}

func (failingMail) Send(context.Context, mail.Message) error { return errors.New("smtp down") }

func (failingMail) Close() error { return nil }

func dispatch(p entity.Purpose) entity.Dispatch {
	return entity.Dispatch{
		Identity:    "Alice@X.com",
		DisplayName: "Alice",
		Purpose:     p,
		Code:        "123456",
		ExpiresAt:   now.Add(5 * time.Minute),
	}
}

func TestMail_Send(t *testing.T) {
	// Arrange
	outbox := mail.NewLog("no-reply@bazaar.test")
	m := NewMail(outbox, clock.NewManual(now), instrument.NewNoop())

	// Act
	err := m.Send(context.Background(), dispatch(entity.PurposeReset))

	// Assert
	require.NoError(t, err)
	sent := outbox.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"Alice@X.com"}, sent[0].To)
	assert.Equal(t, "Your password reset code", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "123456")
	assert.Contains(t, sent[0].HTMLBody, "5 minutes")
}

func TestMail_SendFailure(t *testing.T) {
	m := NewMail(failingMail{}, clock.NewManual(now), instrument.NewNoop())

	err := m.Send(context.Background(), dispatch(entity.PurposeRegister))

	assert.EqualError(t, err, "smtp down")
}

func TestBroker_Send(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		wantTopic string
	}{
		{name: "configured topic", topic: "otp", wantTopic: "otp"},
		{name: "default topic", topic: "", wantTopic: event.OTPIssuedTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			bus := &fakeBus{}
			b := NewBroker(bus, tt.topic, instrument.NewNoop())

			// Act
			err := b.Send(context.Background(), dispatch(entity.PurposeRegister))

			// Assert
			require.NoError(t, err)
			require.Len(t, bus.out, 1)
			assert.Equal(t, tt.wantTopic, bus.out[0].topic)
			assert.Equal(t, []byte("alice@x.com"), bus.out[0].msg.Key)

			var ev event.OTPIssued
			require.NoError(t, json.Unmarshal(bus.out[0].msg.Body, &ev))
			assert.Equal(t, event.OTPIssued{
				Identity:    "Alice@X.com",
				DisplayName: "Alice",
				Purpose:     "register",
				Code:        "123456",
				ExpiresAt:   now.Add(5 * time.Minute).Unix(),
			}, ev)
		})
	}
}

func TestBroker_SendFailure(t *testing.T) {
	b := NewBroker(&fakeBus{fail: messaging.ErrClosed}, "otp", instrument.NewNoop())

	err := b.Send(context.Background(), dispatch(entity.PurposeRegister))

	assert.ErrorIs(t, err, messaging.ErrClosed)
}
