package email

import (
	"context"
	"time"

	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/shared/otpmail"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) SendCode(ctx context.Context, to, displayName, purpose, code string, validity time.Duration) (err error) {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendCode")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	msg, err := otpmail.Compose(otpmail.Input{
		To:          to,
		DisplayName: displayName,
		Purpose:     purpose,
		Code:        code,
		Validity:    validity,
	})
	if err != nil {
		return err
	}

	return m.client.Send(ctx, msg)
}
