package inbound

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/goroutine"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/messaging"
	"github.com/shandysiswandi/bazaar/internal/shared/event"
)

// RegisterMQConsumer starts the otp issued consumer on routine. It runs
// until ctx is done or the bus closes.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	bus messaging.Messaging,
	uc uc,
	ins instrument.Instrumentation,
) error {
	h := &MQHandler{uc: uc, ins: ins}

	topic := lo.CoalesceOrEmpty(cfg.GetString("modules.account.topic.otp_issued"), event.OTPIssuedTopic)
	group := event.OTPIssuedConsumerNotification

	return routine.Go(ctx, group, func(ctx context.Context) error {
		slog.InfoContext(ctx, "Running job for handling consumer", "consumer", group, "topic", topic)
		return bus.Subscribe(ctx, topic, group, h.OTPIssued)
	})
}
