package notification

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier records a lifecycle event for asynchronous delivery. Delivery is
// fire-and-forget: a failure to record is logged and swallowed, it never
// rolls back the state change that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveLifecycleEvent)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, events.LeaveLifecycleEvent) {}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification")
	}
	return &outboxNotifier{outbox: outbox, logger: l}
}

func (n *outboxNotifier) Notify(ctx context.Context, event events.LeaveLifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("encode notification failed",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return
	}

	err = n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   event.ResourceID,
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		n.logger.Warn("record notification failed",
			zap.String("event_type", event.EventType),
			zap.String("resource_id", event.ResourceID),
			zap.Error(err),
		)
	}
}
