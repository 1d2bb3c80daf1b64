// Package delivery hands issued OTP codes to the account holder, either by
// mailing them directly or by publishing them for the notification module.
package delivery

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/shared/event"
	"github.com/shandysiswandi/bazaar/internal/shared/otpmail"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Mail struct {
	client mail.Mail
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewMail(client mail.Mail, clk clock.Clocker, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, clock: clk, ins: ins}
}

func (m *Mail) Send(ctx context.Context, d entity.Dispatch) (err error) {
	ctx, span := m.ins.Tracer("account.outbound.delivery").Start(ctx, "Mail.Send")
	defer func() { endSpan(span, err) }()

	msg, err := otpmail.Compose(otpmail.Input{
		To:          d.Identity,
		DisplayName: d.DisplayName,
		Purpose:     d.Purpose.String(),
		Code:        d.Code,
		Validity:    d.ExpiresAt.Sub(m.clock.Now()),
	})
	if err != nil {
		return err
	}

	return m.client.Send(ctx, msg)
}

type Broker struct {
	bus   messaging.Messaging
	topic string
	ins   instrument.Instrumentation
}

// NewBroker publishes to topic, or to event.OTPIssuedTopic when topic is empty.
func NewBroker(bus messaging.Messaging, topic string, ins instrument.Instrumentation) *Broker {
	if topic == "" {
		topic = event.OTPIssuedTopic
	}
	return &Broker{bus: bus, topic: topic, ins: ins}
}

func (b *Broker) Send(ctx context.Context, d entity.Dispatch) (err error) {
	ctx, span := b.ins.Tracer("account.outbound.delivery").Start(ctx, "Broker.Send")
	defer func() { endSpan(span, err) }()

	body, err := json.Marshal(event.OTPIssued{
		Identity:    d.Identity,
		DisplayName: d.DisplayName,
		Purpose:     d.Purpose.String(),
		Code:        d.Code,
		ExpiresAt:   d.ExpiresAt.Unix(),
	})
	if err != nil {
		return err
	}

	return b.bus.Publish(ctx, b.topic, messaging.Message{
		Key:  []byte(entity.IdentityKey(d.Identity)),
		Body: body,
	})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
