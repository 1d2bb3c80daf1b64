// Package notification mails the codes the account module publishes on the
// message bus.
package notification

import (
	"context"

	"github.com/shandysiswandi/bazaar/internal/notification/inbound"
	"github.com/shandysiswandi/bazaar/internal/notification/outbound/email"
	"github.com/shandysiswandi/bazaar/internal/notification/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/goroutine"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
)

type Dependency struct {
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Mail       mail.Mail
}

func New(ctx context.Context, dep Dependency) error {
	uc := usecase.NewNotification(usecase.Dependency{
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	return inbound.RegisterMQConsumer(ctx, dep.Config, dep.Goroutine, dep.Messaging, uc, dep.Instrument)
}
