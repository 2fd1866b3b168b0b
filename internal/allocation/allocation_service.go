package allocation

import (
	"context"
	"errors"
	"time"

	allocerrors "go-leave/internal/allocation/errors"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	"go-leave/internal/leavetype"
	lterrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/notification"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=allocation_service.go -destination=mock/allocation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor domain.Actor, req CreateAllocationRequest) (AllocationResponse, error)
	Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateAllocationRequest) (AllocationResponse, error)
	GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (AllocationResponse, error)
	List(ctx context.Context, companyID string) ([]AllocationResponse, error)
	ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]AllocationResponse, error)
	Approve(ctx context.Context, companyID, id string, actor domain.Actor) (AllocationResponse, error)
	Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (AllocationResponse, error)
	Delete(ctx context.Context, companyID, id string, actor domain.Actor) error
}

type service struct {
	repo      Repository
	ltRepo    leavetype.Repository
	empRepo   employee.Repository
	ledgerSvc ledger.Service
	notifier  notification.Notifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	ltRepo leavetype.Repository,
	empRepo employee.Repository,
	ledgerSvc ledger.Service,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("allocation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.service")
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &service{
		repo:      repo,
		ltRepo:    ltRepo,
		empRepo:   empRepo,
		ledgerSvc: ledgerSvc,
		notifier:  notifier,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, actor domain.Actor, req CreateAllocationRequest) (AllocationResponse, error) {
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID != actor.EmployeeID && !actor.Manager() {
		return AllocationResponse{}, allocerrors.NotOwner
	}

	emp, err := s.empRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllocationResponse{}, apperror.InvalidField("employee_id")
		}
		return AllocationResponse{}, err
	}

	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllocationResponse{}, lterrors.LeaveTypeNotFound
		}
		return AllocationResponse{}, err
	}

	days, err := parseDays(req.RequestedDays)
	if err != nil {
		return AllocationResponse{}, err
	}

	a := &LeaveAllocationRequest{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    emp.ID,
		LeaveTypeID:   lt.ID,
		RequestedDays: days,
		Status:        StatusRequested,
		Description:   req.Description,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create allocation request persist failed", zap.Error(err))
		return AllocationResponse{}, err
	}

	s.notify(ctx, events.TypeAllocationCreated, a, actor)
	return mapAllocation(*a), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateAllocationRequest) (AllocationResponse, error) {
	a, err := s.load(ctx, companyID, id)
	if err != nil {
		return AllocationResponse{}, err
	}
	if a.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return AllocationResponse{}, allocerrors.NotOwner
	}
	if a.Status != StatusRequested {
		return AllocationResponse{}, allocerrors.NotEditable
	}

	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllocationResponse{}, lterrors.LeaveTypeNotFound
		}
		return AllocationResponse{}, err
	}

	days, err := parseDays(req.RequestedDays)
	if err != nil {
		return AllocationResponse{}, err
	}

	a.LeaveTypeID = lt.ID
	a.RequestedDays = days
	a.Description = req.Description

	if err := s.repo.Update(ctx, a); err != nil {
		return AllocationResponse{}, err
	}
	return mapAllocation(*a), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (AllocationResponse, error) {
	a, err := s.load(ctx, companyID, id)
	if err != nil {
		return AllocationResponse{}, err
	}
	if a.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return AllocationResponse{}, allocerrors.NotOwner
	}
	return mapAllocation(*a), nil
}

func (s *service) List(ctx context.Context, companyID string) ([]AllocationResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]AllocationResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapAllocation(a)
	}
	return resp, nil
}

func (s *service) ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]AllocationResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, companyID, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]AllocationResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapAllocation(a)
	}
	return resp, nil
}

// Approve credits available_days on the employee's assignment. Nothing was
// reserved at request time, so this is the first and only ledger touch.
func (s *service) Approve(ctx context.Context, companyID, id string, actor domain.Actor) (AllocationResponse, error) {
	if !actor.Manager() {
		return AllocationResponse{}, allocerrors.NotOwner
	}

	a, err := s.load(ctx, companyID, id)
	if err != nil {
		return AllocationResponse{}, err
	}
	if a.Status != StatusRequested {
		return AllocationResponse{}, allocerrors.NotApprovable
	}

	if err := s.ledgerSvc.Credit(ctx, companyID, a.EmployeeID.String(), a.LeaveTypeID.String(), a.RequestedDays); err != nil {
		return AllocationResponse{}, err
	}

	a.Status = StatusApproved
	if err := s.repo.Update(ctx, a); err != nil {
		// The credit landed but the status write failed; take the days back.
		if _, debitErr := s.ledgerSvc.DebitClamped(ctx, companyID, a.EmployeeID.String(), a.LeaveTypeID.String(), a.RequestedDays); debitErr != nil {
			s.logger.Error("allocation rollback debit failed",
				zap.String("allocation_id", id),
				zap.Error(debitErr),
			)
		}
		return AllocationResponse{}, err
	}

	s.notify(ctx, events.TypeAllocationApproved, a, actor)
	return mapAllocation(*a), nil
}

func (s *service) Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (AllocationResponse, error) {
	if !actor.Manager() {
		return AllocationResponse{}, allocerrors.NotOwner
	}

	a, err := s.load(ctx, companyID, id)
	if err != nil {
		return AllocationResponse{}, err
	}
	if a.Status != StatusRequested {
		return AllocationResponse{}, allocerrors.NotApprovable
	}

	a.Status = StatusRejected
	a.RejectReason = reason

	if err := s.repo.Update(ctx, a); err != nil {
		return AllocationResponse{}, err
	}

	s.notify(ctx, events.TypeAllocationRejected, a, actor)
	return mapAllocation(*a), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string, actor domain.Actor) error {
	a, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if a.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return allocerrors.NotOwner
	}
	if a.Status != StatusRequested {
		return allocerrors.NotEditable
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) load(ctx context.Context, companyID, id string) (*LeaveAllocationRequest, error) {
	a, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, allocerrors.AllocationNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *service) notify(ctx context.Context, eventType string, a *LeaveAllocationRequest, actor domain.Actor) {
	s.notifier.Notify(ctx, events.LeaveLifecycleEvent{
		EventType:  eventType,
		CompanyID:  a.CompanyID.String(),
		EmployeeID: a.EmployeeID.String(),
		ResourceID: a.ID.String(),
		ActorID:    actor.EmployeeID,
		OccurredAt: s.now().UTC(),
	})
}

func parseDays(raw string) (decimal.Decimal, error) {
	days, err := decimal.NewFromString(raw)
	if err != nil || !days.IsPositive() {
		return decimal.Decimal{}, allocerrors.InvalidDays
	}
	return days, nil
}

func mapAllocation(a LeaveAllocationRequest) AllocationResponse {
	return AllocationResponse{
		ID:            a.ID.String(),
		CompanyID:     a.CompanyID.String(),
		EmployeeID:    a.EmployeeID.String(),
		LeaveTypeID:   a.LeaveTypeID.String(),
		RequestedDays: a.RequestedDays.String(),
		Status:        a.Status,
		Description:   a.Description,
		RejectReason:  a.RejectReason,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}
