package compensatory

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/attendance"
	"go-leave/internal/calendar"
	comperrors "go-leave/internal/compensatory/errors"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/notification"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensatory_service.go -destination=mock/compensatory_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor domain.Actor, req CreateCompensatoryRequest) (CompensatoryResponse, error)
	Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateCompensatoryRequest) (CompensatoryResponse, error)
	GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (CompensatoryResponse, error)
	List(ctx context.Context, companyID string) ([]CompensatoryResponse, error)
	ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]CompensatoryResponse, error)
	Approve(ctx context.Context, companyID, id string, actor domain.Actor) (CompensatoryResponse, error)
	Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (CompensatoryResponse, error)
	Delete(ctx context.Context, companyID, id string, actor domain.Actor) error
}

type service struct {
	repo        Repository
	ltRepo      leavetype.Repository
	empRepo     employee.Repository
	attRepo     attendance.Repository
	calendarSvc calendar.Service
	ledgerSvc   ledger.Service
	notifier    notification.Notifier
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	ltRepo leavetype.Repository,
	empRepo employee.Repository,
	attRepo attendance.Repository,
	calendarSvc calendar.Service,
	ledgerSvc ledger.Service,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("compensatory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensatory.service")
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &service{
		repo:        repo,
		ltRepo:      ltRepo,
		empRepo:     empRepo,
		attRepo:     attRepo,
		calendarSvc: calendarSvc,
		ledgerSvc:   ledgerSvc,
		notifier:    notifier,
		now:         time.Now,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, actor domain.Actor, req CreateCompensatoryRequest) (CompensatoryResponse, error) {
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID != actor.EmployeeID && !actor.Manager() {
		return CompensatoryResponse{}, comperrors.NotOwner
	}

	emp, err := s.empRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompensatoryResponse{}, apperror.InvalidField("employee_id")
		}
		return CompensatoryResponse{}, err
	}

	lt, err := s.compensatoryType(ctx, companyID)
	if err != nil {
		return CompensatoryResponse{}, err
	}

	days, attIDs, err := s.deriveDays(ctx, companyID, employeeID, req.AttendanceIDs)
	if err != nil {
		return CompensatoryResponse{}, err
	}

	cr := &CompensatoryLeaveRequest{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    emp.ID,
		LeaveTypeID:   lt.ID,
		RequestedDays: days,
		Status:        StatusRequested,
		Description:   req.Description,
	}
	for _, attID := range attIDs {
		cr.Attendances = append(cr.Attendances, CompensatoryAttendance{
			ID:             uuid.New(),
			CompensatoryID: cr.ID,
			AttendanceID:   attID,
		})
	}

	if err := s.repo.Create(ctx, cr); err != nil {
		s.logger.Error("create compensatory request persist failed", zap.Error(err))
		return CompensatoryResponse{}, err
	}

	s.notify(ctx, events.TypeCompensatoryCreated, cr, actor)
	return mapCompensatory(*cr), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateCompensatoryRequest) (CompensatoryResponse, error) {
	cr, err := s.load(ctx, companyID, id)
	if err != nil {
		return CompensatoryResponse{}, err
	}
	if cr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return CompensatoryResponse{}, comperrors.NotOwner
	}
	if cr.Status != StatusRequested {
		return CompensatoryResponse{}, comperrors.NotEditable
	}

	days, attIDs, err := s.deriveDays(ctx, companyID, cr.EmployeeID.String(), req.AttendanceIDs)
	if err != nil {
		return CompensatoryResponse{}, err
	}

	cr.RequestedDays = days
	cr.Description = req.Description

	attendances := make([]CompensatoryAttendance, 0, len(attIDs))
	for _, attID := range attIDs {
		attendances = append(attendances, CompensatoryAttendance{
			ID:             uuid.New(),
			CompensatoryID: cr.ID,
			AttendanceID:   attID,
		})
	}
	if err := s.repo.ReplaceAttendances(ctx, cr, attendances); err != nil {
		return CompensatoryResponse{}, err
	}
	cr.Attendances = attendances
	return mapCompensatory(*cr), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (CompensatoryResponse, error) {
	cr, err := s.load(ctx, companyID, id)
	if err != nil {
		return CompensatoryResponse{}, err
	}
	if cr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return CompensatoryResponse{}, comperrors.NotOwner
	}
	return mapCompensatory(*cr), nil
}

func (s *service) List(ctx context.Context, companyID string) ([]CompensatoryResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]CompensatoryResponse, len(rows))
	for i, cr := range rows {
		resp[i] = mapCompensatory(cr)
	}
	return resp, nil
}

func (s *service) ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]CompensatoryResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, companyID, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]CompensatoryResponse, len(rows))
	for i, cr := range rows {
		resp[i] = mapCompensatory(cr)
	}
	return resp, nil
}

// Approve credits the compensatory type's ledger. Employees usually have no
// assignment for that type yet, so one is created on first approval.
func (s *service) Approve(ctx context.Context, companyID, id string, actor domain.Actor) (CompensatoryResponse, error) {
	if !actor.Manager() {
		return CompensatoryResponse{}, comperrors.NotOwner
	}

	cr, err := s.load(ctx, companyID, id)
	if err != nil {
		return CompensatoryResponse{}, err
	}
	if cr.Status != StatusRequested {
		return CompensatoryResponse{}, comperrors.NotApprovable
	}

	err = s.ledgerSvc.Credit(ctx, companyID, cr.EmployeeID.String(), cr.LeaveTypeID.String(), cr.RequestedDays)
	if errors.Is(err, ledgererrors.AssignmentNotFound) {
		if _, assignErr := s.ledgerSvc.Assign(ctx, companyID, actor.EmployeeID, ledger.AssignRequest{
			EmployeeID:  cr.EmployeeID.String(),
			LeaveTypeID: cr.LeaveTypeID.String(),
		}); assignErr != nil {
			return CompensatoryResponse{}, assignErr
		}
		err = s.ledgerSvc.Credit(ctx, companyID, cr.EmployeeID.String(), cr.LeaveTypeID.String(), cr.RequestedDays)
	}
	if err != nil {
		return CompensatoryResponse{}, err
	}

	cr.Status = StatusApproved
	if err := s.repo.Update(ctx, cr); err != nil {
		if _, debitErr := s.ledgerSvc.DebitClamped(ctx, companyID, cr.EmployeeID.String(), cr.LeaveTypeID.String(), cr.RequestedDays); debitErr != nil {
			s.logger.Error("compensatory rollback debit failed",
				zap.String("compensatory_id", id),
				zap.Error(debitErr),
			)
		}
		return CompensatoryResponse{}, err
	}

	s.notify(ctx, events.TypeCompensatoryApproved, cr, actor)
	return mapCompensatory(*cr), nil
}

// Reject revokes a request. Rejecting an already approved request takes the
// credited days back, floored at zero with carryforward absorbing overflow.
func (s *service) Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (CompensatoryResponse, error) {
	if !actor.Manager() {
		return CompensatoryResponse{}, comperrors.NotOwner
	}

	cr, err := s.load(ctx, companyID, id)
	if err != nil {
		return CompensatoryResponse{}, err
	}
	if cr.Status == StatusRejected {
		return CompensatoryResponse{}, comperrors.NotApprovable
	}

	if cr.Status == StatusApproved {
		if _, err := s.ledgerSvc.DebitClamped(ctx, companyID, cr.EmployeeID.String(), cr.LeaveTypeID.String(), cr.RequestedDays); err != nil {
			return CompensatoryResponse{}, err
		}
	}

	cr.Status = StatusRejected
	cr.RejectReason = reason

	if err := s.repo.Update(ctx, cr); err != nil {
		return CompensatoryResponse{}, err
	}

	s.notify(ctx, events.TypeCompensatoryRejected, cr, actor)
	return mapCompensatory(*cr), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string, actor domain.Actor) error {
	cr, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if cr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return comperrors.NotOwner
	}
	if cr.Status != StatusRequested {
		return comperrors.NotEditable
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) compensatoryType(ctx context.Context, companyID string) (*leavetype.LeaveType, error) {
	lt, err := s.ltRepo.FindCompensatoryByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comperrors.NoCompensatoryType
		}
		return nil, err
	}
	return lt, nil
}

// deriveDays turns the claimed attendance records into leave days. Every
// record must belong to the employee and fall on an excluded calendar day.
func (s *service) deriveDays(ctx context.Context, companyID, employeeID string, ids []string) (decimal.Decimal, []uuid.UUID, error) {
	records, err := s.attRepo.FindByIDsAndEmployee(ctx, companyID, employeeID, ids)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}
	if len(records) != len(ids) {
		return decimal.Decimal{}, nil, comperrors.AttendanceNotFound
	}

	days := decimal.Zero
	attIDs := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		excluded, err := s.calendarSvc.ExcludedCount(ctx, companyID, rec.AttendanceDate, rec.AttendanceDate, true, true)
		if err != nil {
			return decimal.Decimal{}, nil, err
		}
		if excluded == 0 {
			return decimal.Decimal{}, nil, comperrors.AttendanceNotExcluded
		}
		days = days.Add(CreditForHours(rec.WorkedHours))
		attIDs = append(attIDs, rec.ID)
	}

	if days.IsZero() {
		return decimal.Decimal{}, nil, comperrors.NoCreditableHours
	}
	return days, attIDs, nil
}

func (s *service) load(ctx context.Context, companyID, id string) (*CompensatoryLeaveRequest, error) {
	cr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comperrors.CompensatoryNotFound
		}
		return nil, err
	}
	return cr, nil
}

func (s *service) notify(ctx context.Context, eventType string, cr *CompensatoryLeaveRequest, actor domain.Actor) {
	s.notifier.Notify(ctx, events.LeaveLifecycleEvent{
		EventType:  eventType,
		CompanyID:  cr.CompanyID.String(),
		EmployeeID: cr.EmployeeID.String(),
		ResourceID: cr.ID.String(),
		ActorID:    actor.EmployeeID,
		OccurredAt: s.now().UTC(),
	})
}

func mapCompensatory(cr CompensatoryLeaveRequest) CompensatoryResponse {
	attIDs := make([]string, len(cr.Attendances))
	for i, att := range cr.Attendances {
		attIDs[i] = att.AttendanceID.String()
	}
	return CompensatoryResponse{
		ID:            cr.ID.String(),
		CompanyID:     cr.CompanyID.String(),
		EmployeeID:    cr.EmployeeID.String(),
		LeaveTypeID:   cr.LeaveTypeID.String(),
		AttendanceIDs: attIDs,
		RequestedDays: cr.RequestedDays.String(),
		Status:        cr.Status,
		Description:   cr.Description,
		RejectReason:  cr.RejectReason,
		CreatedAt:     cr.CreatedAt.Format(time.RFC3339),
	}
}
