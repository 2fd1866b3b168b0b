package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/leavetype"
	lterrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// versionedRetries bounds the optimistic-update loop per mutation.
const versionedRetries = 3

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, companyID, actorID string, req AssignRequest) (AssignmentResponse, error)
	BulkAssign(ctx context.Context, companyID, actorID string, req BulkAssignRequest) (BulkAssignResponse, error)
	Unassign(ctx context.Context, companyID, id string) error
	GetEmployeeBalances(ctx context.Context, companyID, employeeID string) ([]AssignmentResponse, error)
	GetCompanyAssignments(ctx context.Context, companyID string) ([]AssignmentResponse, error)

	// Balance returns the live row; callers treat it as read-only.
	Balance(ctx context.Context, companyID, employeeID, leaveTypeID string) (*AvailableLeave, error)

	// Debit takes amount days, available bucket first, and fails when the
	// total balance cannot cover it.
	Debit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (DebitSplit, error)

	// DebitClamped takes up to amount days and floors both buckets at zero
	// instead of failing. The returned split reflects what was actually taken.
	DebitClamped(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (DebitSplit, error)

	// Credit adds amount days to the available bucket.
	Credit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error

	// CreditSplit restores a previously recorded debit bucket for bucket.
	CreditSplit(ctx context.Context, companyID, employeeID, leaveTypeID string, split DebitSplit) error

	// Scheduler surface.
	FillMissingResetDates(ctx context.Context) (int, error)
	DueResets(ctx context.Context, asOf time.Time) ([]AvailableLeave, error)
	DueExpiries(ctx context.Context, asOf time.Time) ([]AvailableLeave, error)
	ApplyReset(ctx context.Context, al *AvailableLeave) error
	ApplyExpiry(ctx context.Context, al *AvailableLeave) error

	Forecast(ctx context.Context, companyID, employeeID, leaveTypeID string, months int) ([]ForecastPoint, error)
}

type service struct {
	repo     Repository
	ltRepo   leavetype.Repository
	empRepo  employee.Repository
	notifier notification.Notifier
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	ltRepo leavetype.Repository,
	empRepo employee.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &service{
		repo:     repo,
		ltRepo:   ltRepo,
		empRepo:  empRepo,
		notifier: notifier,
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Assign(ctx context.Context, companyID, actorID string, req AssignRequest) (AssignmentResponse, error) {
	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, lterrors.LeaveTypeNotFound
		}
		return AssignmentResponse{}, err
	}

	al, err := s.assignOne(ctx, companyID, req.EmployeeID, lt)
	if err != nil {
		return AssignmentResponse{}, err
	}

	s.notifier.Notify(ctx, events.LeaveLifecycleEvent{
		EventType:  events.TypeLeaveTypeAssigned,
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		ResourceID: al.ID.String(),
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	})
	return mapAssignment(*al), nil
}

func (s *service) BulkAssign(ctx context.Context, companyID, actorID string, req BulkAssignRequest) (BulkAssignResponse, error) {
	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BulkAssignResponse{}, lterrors.LeaveTypeNotFound
		}
		return BulkAssignResponse{}, err
	}

	resp := BulkAssignResponse{Results: make([]BulkAssignResult, 0, len(req.EmployeeIDs))}
	for _, employeeID := range req.EmployeeIDs {
		al, err := s.assignOne(ctx, companyID, employeeID, lt)
		if err != nil {
			resp.Results = append(resp.Results, BulkAssignResult{
				EmployeeID: employeeID,
				Assigned:   false,
				Reason:     assignFailureReason(err),
			})
			continue
		}
		resp.Results = append(resp.Results, BulkAssignResult{EmployeeID: employeeID, Assigned: true})
		s.notifier.Notify(ctx, events.LeaveLifecycleEvent{
			EventType:  events.TypeLeaveTypeAssigned,
			CompanyID:  companyID,
			EmployeeID: employeeID,
			ResourceID: al.ID.String(),
			ActorID:    actorID,
			OccurredAt: s.now().UTC(),
		})
	}
	return resp, nil
}

func (s *service) assignOne(ctx context.Context, companyID, employeeID string, lt *leavetype.LeaveType) (*AvailableLeave, error) {
	belongs, err := s.empRepo.BelongsToCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, ledgererrors.AssignmentNotFound
	}

	if _, err := s.repo.FindByEmployeeAndType(ctx, companyID, employeeID, lt.ID.String()); err == nil {
		return nil, ledgererrors.AlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assigned := midnight(s.now())
	al := &AvailableLeave{
		ID:               uuid.New(),
		CompanyID:        uuid.MustParse(companyID),
		EmployeeID:       uuid.MustParse(employeeID),
		LeaveTypeID:      lt.ID,
		AvailableDays:    lt.TotalDays,
		CarryforwardDays: decimal.Zero,
		AssignedDate:     assigned,
		ResetDate:        NextResetDate(lt, assigned),
	}
	al.RecomputeTotal()

	if err := s.repo.Create(ctx, al); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ledgererrors.AlreadyAssigned
		}
		s.logger.Error("assign persist failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", lt.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return al, nil
}

func (s *service) Unassign(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledgererrors.AssignmentNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) GetEmployeeBalances(ctx context.Context, companyID, employeeID string) ([]AssignmentResponse, error) {
	rows, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapAssignments(rows), nil
}

func (s *service) GetCompanyAssignments(ctx context.Context, companyID string) ([]AssignmentResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapAssignments(rows), nil
}

func (s *service) Balance(ctx context.Context, companyID, employeeID, leaveTypeID string) (*AvailableLeave, error) {
	al, err := s.repo.FindByEmployeeAndType(ctx, companyID, employeeID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgererrors.AssignmentNotFound
		}
		return nil, err
	}
	return al, nil
}

func (s *service) Debit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (DebitSplit, error) {
	return s.debit(ctx, companyID, employeeID, leaveTypeID, amount, false)
}

func (s *service) DebitClamped(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (DebitSplit, error) {
	return s.debit(ctx, companyID, employeeID, leaveTypeID, amount, true)
}

func (s *service) debit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal, clamp bool) (DebitSplit, error) {
	if amount.IsNegative() {
		return DebitSplit{}, ledgererrors.InvalidAmount
	}

	var split DebitSplit
	err := s.mutate(ctx, companyID, employeeID, leaveTypeID, func(al *AvailableLeave) error {
		if !clamp && amount.GreaterThan(al.TotalLeaveDays) {
			return ledgererrors.InsufficientBalance
		}

		fromAvailable := decimal.Min(al.AvailableDays, amount)
		if fromAvailable.IsNegative() {
			fromAvailable = decimal.Zero
		}
		fromCarryforward := decimal.Min(al.CarryforwardDays, amount.Sub(fromAvailable))
		if fromCarryforward.IsNegative() {
			fromCarryforward = decimal.Zero
		}

		al.AvailableDays = al.AvailableDays.Sub(fromAvailable)
		al.CarryforwardDays = al.CarryforwardDays.Sub(fromCarryforward)
		al.RecomputeTotal()

		split = DebitSplit{Available: fromAvailable, Carryforward: fromCarryforward}
		return nil
	})
	return split, err
}

func (s *service) Credit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledgererrors.InvalidAmount
	}
	return s.mutate(ctx, companyID, employeeID, leaveTypeID, func(al *AvailableLeave) error {
		al.AvailableDays = al.AvailableDays.Add(amount)
		al.RecomputeTotal()
		return nil
	})
}

func (s *service) CreditSplit(ctx context.Context, companyID, employeeID, leaveTypeID string, split DebitSplit) error {
	if split.Available.IsNegative() || split.Carryforward.IsNegative() {
		return ledgererrors.InvalidAmount
	}
	if split.Total().IsZero() {
		return nil
	}
	return s.mutate(ctx, companyID, employeeID, leaveTypeID, func(al *AvailableLeave) error {
		al.AvailableDays = al.AvailableDays.Add(split.Available)
		al.CarryforwardDays = al.CarryforwardDays.Add(split.Carryforward)
		al.RecomputeTotal()
		return nil
	})
}

// mutate runs fn against a freshly loaded row and retries the versioned
// write on conflict.
func (s *service) mutate(ctx context.Context, companyID, employeeID, leaveTypeID string, fn func(al *AvailableLeave) error) error {
	for attempt := 0; attempt < versionedRetries; attempt++ {
		al, err := s.repo.FindByEmployeeAndType(ctx, companyID, employeeID, leaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledgererrors.AssignmentNotFound
			}
			return err
		}

		if err := fn(al); err != nil {
			return err
		}

		ok, err := s.repo.UpdateVersioned(ctx, al)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		s.logger.Debug("versioned update conflict, retrying",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Int("attempt", attempt+1),
		)
	}
	return ledgererrors.ConcurrentUpdate
}

func (s *service) FillMissingResetDates(ctx context.Context) (int, error) {
	rows, err := s.repo.FindMissingResetDate(ctx)
	if err != nil {
		return 0, err
	}

	filled := 0
	for i := range rows {
		al := &rows[i]
		lt, err := s.ltRepo.FindByIDAndCompany(ctx, al.CompanyID.String(), al.LeaveTypeID.String())
		if err != nil {
			s.logger.Warn("fill reset date: leave type lookup failed",
				zap.String("assignment_id", al.ID.String()),
				zap.Error(err),
			)
			continue
		}
		next := NextResetDate(lt, al.AssignedDate)
		if next == nil {
			continue
		}
		al.ResetDate = next
		if ok, err := s.repo.UpdateVersioned(ctx, al); err != nil || !ok {
			s.logger.Warn("fill reset date: persist failed",
				zap.String("assignment_id", al.ID.String()),
				zap.Bool("conflict", err == nil),
				zap.Error(err),
			)
			continue
		}
		filled++
	}
	return filled, nil
}

func (s *service) DueResets(ctx context.Context, asOf time.Time) ([]AvailableLeave, error) {
	return s.repo.FindDueResets(ctx, asOf)
}

func (s *service) DueExpiries(ctx context.Context, asOf time.Time) ([]AvailableLeave, error) {
	return s.repo.FindDueExpiries(ctx, asOf)
}

// ApplyReset restores the available bucket to the type's grant, carries the
// remaining total forward within the configured cap, and advances the reset
// date past the one just applied.
func (s *service) ApplyReset(ctx context.Context, al *AvailableLeave) error {
	lt, err := s.ltRepo.FindByIDAndCompany(ctx, al.CompanyID.String(), al.LeaveTypeID.String())
	if err != nil {
		return err
	}
	if al.ResetDate == nil {
		return nil
	}

	carried := decimal.Zero
	if lt.CarryforwardEnabled() {
		carried = al.TotalLeaveDays
		if lt.CarryforwardMax != nil && carried.GreaterThan(*lt.CarryforwardMax) {
			carried = *lt.CarryforwardMax
		}
	}

	appliedAt := *al.ResetDate
	al.AvailableDays = lt.TotalDays
	al.CarryforwardDays = carried
	al.RecomputeTotal()
	al.ResetDate = NextResetDate(lt, appliedAt)
	if carried.IsPositive() {
		al.ExpiredDate = NextExpiryDate(lt, appliedAt)
	} else {
		al.ExpiredDate = nil
	}

	ok, err := s.repo.UpdateVersioned(ctx, al)
	if err != nil {
		return err
	}
	if !ok {
		return ledgererrors.ConcurrentUpdate
	}

	s.logger.Info("reset applied",
		zap.String("assignment_id", al.ID.String()),
		zap.String("carried", carried.String()),
	)
	return nil
}

// ApplyExpiry drops the carryforward bucket, restores the available bucket to
// the type's grant, and advances the expiry date past the one just applied.
func (s *service) ApplyExpiry(ctx context.Context, al *AvailableLeave) error {
	lt, err := s.ltRepo.FindByIDAndCompany(ctx, al.CompanyID.String(), al.LeaveTypeID.String())
	if err != nil {
		return err
	}
	if al.ExpiredDate == nil {
		return nil
	}

	appliedAt := *al.ExpiredDate
	expired := al.CarryforwardDays
	al.CarryforwardDays = decimal.Zero
	al.AvailableDays = lt.TotalDays
	al.RecomputeTotal()
	al.ExpiredDate = NextExpiryDate(lt, appliedAt)

	ok, err := s.repo.UpdateVersioned(ctx, al)
	if err != nil {
		return err
	}
	if !ok {
		return ledgererrors.ConcurrentUpdate
	}

	s.logger.Info("carryforward expired",
		zap.String("assignment_id", al.ID.String()),
		zap.String("expired", expired.String()),
	)
	return nil
}

// Forecast projects the balance over the coming months by replaying the
// reset and expiry schedule against the current row. Concurrent identical
// requests share one computation.
func (s *service) Forecast(ctx context.Context, companyID, employeeID, leaveTypeID string, months int) ([]ForecastPoint, error) {
	if months <= 0 {
		months = 12
	}
	key := fmt.Sprintf("forecast:%s:%s:%s:%d", companyID, employeeID, leaveTypeID, months)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		al, err := s.Balance(ctx, companyID, employeeID, leaveTypeID)
		if err != nil {
			return nil, err
		}
		lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, leaveTypeID)
		if err != nil {
			return nil, err
		}
		return s.project(al, lt, months), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ForecastPoint), nil
}

func (s *service) project(al *AvailableLeave, lt *leavetype.LeaveType, months int) []ForecastPoint {
	start := midnight(s.now())
	horizon := start.AddDate(0, months, 0)

	available := al.AvailableDays
	carryforward := al.CarryforwardDays
	resetAt := al.ResetDate
	expireAt := al.ExpiredDate

	points := []ForecastPoint{snapshot(start, "current", available, carryforward)}

	for {
		nextEvent, eventName := earliestEvent(resetAt, expireAt)
		if nextEvent == nil || nextEvent.After(horizon) {
			break
		}

		switch eventName {
		case "reset":
			total := available.Add(carryforward)
			if total.IsNegative() {
				total = decimal.Zero
			}
			carried := decimal.Zero
			if lt.CarryforwardEnabled() {
				carried = total
				if lt.CarryforwardMax != nil && carried.GreaterThan(*lt.CarryforwardMax) {
					carried = *lt.CarryforwardMax
				}
			}
			available = lt.TotalDays
			carryforward = carried
			appliedAt := *resetAt
			resetAt = NextResetDate(lt, appliedAt)
			if carried.IsPositive() {
				expireAt = NextExpiryDate(lt, appliedAt)
			} else {
				expireAt = nil
			}
			points = append(points, snapshot(appliedAt, "reset", available, carryforward))
		case "expiry":
			appliedAt := *expireAt
			carryforward = decimal.Zero
			available = lt.TotalDays
			expireAt = NextExpiryDate(lt, appliedAt)
			points = append(points, snapshot(appliedAt, "carryforward_expired", available, carryforward))
		}
	}
	return points
}

func earliestEvent(resetAt, expireAt *time.Time) (*time.Time, string) {
	switch {
	case resetAt == nil && expireAt == nil:
		return nil, ""
	case resetAt == nil:
		return expireAt, "expiry"
	case expireAt == nil:
		return resetAt, "reset"
	case expireAt.Before(*resetAt):
		return expireAt, "expiry"
	default:
		return resetAt, "reset"
	}
}

func snapshot(at time.Time, event string, available, carryforward decimal.Decimal) ForecastPoint {
	total := available.Add(carryforward)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return ForecastPoint{
		Date:             at.Format("2006-01-02"),
		Event:            event,
		AvailableDays:    available.String(),
		CarryforwardDays: carryforward.String(),
		TotalLeaveDays:   total.String(),
	}
}

func assignFailureReason(err error) string {
	switch {
	case errors.Is(err, ledgererrors.AlreadyAssigned):
		return "already assigned"
	case errors.Is(err, ledgererrors.AssignmentNotFound):
		return "employee not in company"
	default:
		return "internal error"
	}
}

func mapAssignments(rows []AvailableLeave) []AssignmentResponse {
	resp := make([]AssignmentResponse, len(rows))
	for i, al := range rows {
		resp[i] = mapAssignment(al)
	}
	return resp
}

func mapAssignment(al AvailableLeave) AssignmentResponse {
	resp := AssignmentResponse{
		ID:               al.ID.String(),
		CompanyID:        al.CompanyID.String(),
		EmployeeID:       al.EmployeeID.String(),
		LeaveTypeID:      al.LeaveTypeID.String(),
		AvailableDays:    al.AvailableDays.String(),
		CarryforwardDays: al.CarryforwardDays.String(),
		TotalLeaveDays:   al.TotalLeaveDays.String(),
		AssignedDate:     al.AssignedDate.Format("2006-01-02"),
	}
	if al.ResetDate != nil {
		d := al.ResetDate.Format("2006-01-02")
		resp.ResetDate = &d
	}
	if al.ExpiredDate != nil {
		d := al.ExpiredDate.Format("2006-01-02")
		resp.ExpiredDate = &d
	}
	return resp
}
