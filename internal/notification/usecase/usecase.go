package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// ErrExpiredCode is returned for codes that expired while queued.
var ErrExpiredCode = errors.New("notification: code already expired")

type repoMail interface {
	SendCode(ctx context.Context, to, displayName, purpose, code string, validity time.Duration) error
}

type Usecase struct {
	mail      repoMail
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoMail   repoMail
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		mail:      dep.RepoMail,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

type ConsumeOTPIssuedInput struct {
	Identity    string `validate:"required,email"`
	DisplayName string `validate:"max=100"`
	Purpose     string `validate:"required,oneof=register reset"`
	Code        string `validate:"required,otpcode"`
	ExpiresAt   time.Time
}

// ConsumeOTPIssued mails an issued code. Invalid and already expired events
// come back as validation errors; mail failures are server errors.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	validity := in.ExpiresAt.Sub(s.clock.Now())
	if validity <= 0 {
		return goerror.NewInvalidInput(ErrExpiredCode)
	}

	if err := s.mail.SendCode(ctx, in.Identity, in.DisplayName, in.Purpose, in.Code, validity); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "identity", in.Identity, "purpose", in.Purpose, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
