package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/bazaar/internal/notification/usecase"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/shared/event"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}

type MQHandler struct {
	uc  uc
	ins instrument.Instrumentation
}

// OTPIssued acks messages that can never be processed and asks for
// redelivery only when the mail could not be sent.
func (h *MQHandler) OTPIssued(ctx context.Context, msg messaging.Message) error {
	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssued")
	defer span.End()

	var payload event.OTPIssued
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued", "error", err)
		return nil
	}
	slog.InfoContext(ctx, "consume: otp issued", "identity", payload.Identity, "purpose", payload.Purpose)

	err := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		Identity:    payload.Identity,
		DisplayName: payload.DisplayName,
		Purpose:     payload.Purpose,
		Code:        payload.Code,
		ExpiresAt:   time.Unix(payload.ExpiresAt, 0).UTC(),
	})

	var gerr *goerror.Error
	if errors.As(err, &gerr) && gerr.Type() == goerror.TypeValidation {
		slog.WarnContext(ctx, "dropping otp issued message", "identity", payload.Identity, "error", err)
		return nil
	}

	return err
}
