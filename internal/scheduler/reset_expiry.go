package scheduler

import (
	"context"
	"time"

	"go-leave/internal/ledger"

	"go.uber.org/zap"
)

// ResetExpiryScheduler applies due balance resets and carryforward expiries.
// Each row goes through the ledger service's versioned operations, so a
// concurrent run or a mid-scan crash leaves at most unapplied rows behind;
// running again the same day picks them up without double-applying.
type ResetExpiryScheduler struct {
	ledgerSvc ledger.Service
	now       func() time.Time
	logger    *zap.Logger
}

func NewResetExpiryScheduler(ledgerSvc ledger.Service, logger ...*zap.Logger) *ResetExpiryScheduler {
	l := zap.L().Named("scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("scheduler")
	}
	return &ResetExpiryScheduler{
		ledgerSvc: ledgerSvc,
		now:       time.Now,
		logger:    l,
	}
}

// RunResult counts what one pass did.
type RunResult struct {
	ResetDatesFilled int
	ResetsApplied    int
	ExpiriesApplied  int
	Failures         int
}

// RunOnce performs a single scan. Row-level failures are logged and skipped;
// only scan-level failures abort the pass.
func (s *ResetExpiryScheduler) RunOnce(ctx context.Context) (RunResult, error) {
	var result RunResult
	asOf := s.now().UTC()

	filled, err := s.ledgerSvc.FillMissingResetDates(ctx)
	if err != nil {
		s.logger.Error("fill missing reset dates failed", zap.Error(err))
		return result, err
	}
	result.ResetDatesFilled = filled

	dueResets, err := s.ledgerSvc.DueResets(ctx, asOf)
	if err != nil {
		s.logger.Error("scan due resets failed", zap.Error(err))
		return result, err
	}
	for i := range dueResets {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		row := &dueResets[i]
		if err := s.ledgerSvc.ApplyReset(ctx, row); err != nil {
			result.Failures++
			s.logger.Warn("apply reset failed",
				zap.String("assignment_id", row.ID.String()),
				zap.String("employee_id", row.EmployeeID.String()),
				zap.Error(err),
			)
			continue
		}
		result.ResetsApplied++
	}

	dueExpiries, err := s.ledgerSvc.DueExpiries(ctx, asOf)
	if err != nil {
		s.logger.Error("scan due expiries failed", zap.Error(err))
		return result, err
	}
	for i := range dueExpiries {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		row := &dueExpiries[i]
		if err := s.ledgerSvc.ApplyExpiry(ctx, row); err != nil {
			result.Failures++
			s.logger.Warn("apply expiry failed",
				zap.String("assignment_id", row.ID.String()),
				zap.String("employee_id", row.EmployeeID.String()),
				zap.Error(err),
			)
			continue
		}
		result.ExpiriesApplied++
	}

	s.logger.Info("reset/expiry pass complete",
		zap.Int("reset_dates_filled", result.ResetDatesFilled),
		zap.Int("resets_applied", result.ResetsApplied),
		zap.Int("expiries_applied", result.ExpiriesApplied),
		zap.Int("failures", result.Failures),
	)
	return result, nil
}
