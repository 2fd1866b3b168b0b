package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-leave/internal/events"
	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/leavetype"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle assigns every leave type flagged assign_on_join to
// newly created employees. Assignments are idempotent per (employee, type),
// so a redelivered event only produces already-assigned skips.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	ltRepo leavetype.Repository,
	ledgerSvc ledger.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != "" && event.EventType != events.TypeEmployeeCreated {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := assignJoinDefaults(ctx, ltRepo, ledgerSvc, event, log); err != nil {
			log.Error("assign default leave types failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

func assignJoinDefaults(
	ctx context.Context,
	ltRepo leavetype.Repository,
	ledgerSvc ledger.Service,
	event events.EmployeeCreatedEvent,
	log *zap.Logger,
) error {
	types, err := ltRepo.FindAssignOnJoinByCompany(ctx, event.CompanyID)
	if err != nil {
		return err
	}

	for _, lt := range types {
		_, err := ledgerSvc.Assign(ctx, event.CompanyID, "", ledger.AssignRequest{
			EmployeeID:  event.EmployeeID,
			LeaveTypeID: lt.ID.String(),
		})
		if errors.Is(err, ledgererrors.AlreadyAssigned) {
			log.Warn("leave type already assigned, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("leave_type_id", lt.ID.String()),
			)
			continue
		}
		if err != nil {
			return err
		}
		log.Info("leave type assigned from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("leave_type_id", lt.ID.String()),
		)
	}
	return nil
}
