package leaverequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/calendar"
	"go-leave/internal/daycount"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/leavetype"
	lrerrors "go-leave/internal/leaverequest/errors"
	lterrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/notification"
	"go-leave/internal/restriction"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestCounterType = "leave_request"

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor domain.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error)
	List(ctx context.Context, companyID string, query ListLeaveRequestsQuery) ([]LeaveRequestResponse, *response.PaginationMeta, error)
	ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]LeaveRequestResponse, error)

	Approve(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error)
	Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error)
	Delete(ctx context.Context, companyID, id string, actor domain.Actor) error

	BulkApprove(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse
	BulkReject(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse
	BulkDelete(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse
}

type service struct {
	repo           Repository
	ltRepo         leavetype.Repository
	empRepo        employee.Repository
	calendarSvc    calendar.Service
	ledgerSvc      ledger.Service
	approvalSvc    approval.Service
	restrictionSvc restriction.Service
	counter        counter.Repository
	notifier       notification.Notifier
	now            func() time.Time
	logger         *zap.Logger
}

func NewService(
	repo Repository,
	ltRepo leavetype.Repository,
	empRepo employee.Repository,
	calendarSvc calendar.Service,
	ledgerSvc ledger.Service,
	approvalSvc approval.Service,
	restrictionSvc restriction.Service,
	counterRepo counter.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &service{
		repo:           repo,
		ltRepo:         ltRepo,
		empRepo:        empRepo,
		calendarSvc:    calendarSvc,
		ledgerSvc:      ledgerSvc,
		approvalSvc:    approvalSvc,
		restrictionSvc: restrictionSvc,
		counter:        counterRepo,
		notifier:       notifier,
		now:            time.Now,
		logger:         l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, actor domain.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID != actor.EmployeeID && !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}

	emp, err := s.empRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, apperror.InvalidField("employee_id")
		}
		return LeaveRequestResponse{}, err
	}

	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, lterrors.LeaveTypeNotFound
		}
		return LeaveRequestResponse{}, err
	}

	window, err := s.buildWindow(ctx, companyID, lt, req.StartDate, req.EndDate, req.StartHalf, req.EndHalf)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	if window.start.Before(midnight(s.now())) && !actor.Privileged() {
		return LeaveRequestResponse{}, lrerrors.PastStartDate
	}

	if err := s.restrictionSvc.Check(ctx, companyID, emp.DepartmentID, emp.PositionID, window.start, window.end, actor); err != nil {
		return LeaveRequestResponse{}, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, companyID, employeeID, window.start, window.end, "")
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if len(overlapping) > 0 {
		return LeaveRequestResponse{}, lrerrors.OverlappingRequest
	}

	balance, err := s.ledgerSvc.Balance(ctx, companyID, employeeID, req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if window.days.GreaterThan(balance.TotalLeaveDays) {
		return LeaveRequestResponse{}, ledgererrors.InsufficientBalance
	}

	seq, err := s.counter.GetNextValue(ctx, companyID, requestCounterType)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    emp.ID,
		LeaveTypeID:   lt.ID,
		RequestNumber: fmt.Sprintf("LR-%05d", seq),
		StartDate:     window.start,
		EndDate:       window.end,
		StartHalf:     window.startHalf,
		EndHalf:       window.endHalf,
		RequestedDays: window.days,
		Status:        StatusRequested,
		Description:   req.Description,
	}

	if err := s.repo.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.notify(ctx, events.TypeLeaveRequestCreated, lr, actor)

	if !lt.RequireApproval {
		if err := s.settleApproval(ctx, companyID, lr, actor); err != nil {
			return LeaveRequestResponse{}, err
		}
	} else if emp.DepartmentID != nil {
		if _, err := s.approvalSvc.ResolveChain(ctx, companyID, emp.DepartmentID.String(), lr.ID.String(), lr.RequestedDays); err != nil {
			s.logger.Error("resolve approval chain failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	}

	s.recountClashes(ctx, lr)
	return mapRequest(*lr), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, actor domain.Actor, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error) {
	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}
	if lr.Status != StatusRequested {
		return LeaveRequestResponse{}, lrerrors.NotEditable
	}

	lt, err := s.ltRepo.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, lterrors.LeaveTypeNotFound
		}
		return LeaveRequestResponse{}, err
	}

	window, err := s.buildWindow(ctx, companyID, lt, req.StartDate, req.EndDate, req.StartHalf, req.EndHalf)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	if window.start.Before(midnight(s.now())) && !actor.Privileged() {
		return LeaveRequestResponse{}, lrerrors.PastStartDate
	}

	emp, err := s.empRepo.FindByIDAndCompany(ctx, companyID, lr.EmployeeID.String())
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := s.restrictionSvc.Check(ctx, companyID, emp.DepartmentID, emp.PositionID, window.start, window.end, actor); err != nil {
		return LeaveRequestResponse{}, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, companyID, lr.EmployeeID.String(), window.start, window.end, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if len(overlapping) > 0 {
		return LeaveRequestResponse{}, lrerrors.OverlappingRequest
	}

	// Peers of the old window need a recount once the request moves away.
	oldStart, oldEnd := lr.StartDate, lr.EndDate

	lr.LeaveTypeID = lt.ID
	lr.StartDate = window.start
	lr.EndDate = window.end
	lr.StartHalf = window.startHalf
	lr.EndHalf = window.endHalf
	lr.RequestedDays = window.days
	lr.Description = req.Description

	if err := s.repo.Update(ctx, lr); err != nil {
		s.logger.Error("update leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if emp.DepartmentID != nil {
		if _, err := s.approvalSvc.RebuildChain(ctx, companyID, emp.DepartmentID.String(), id, lr.RequestedDays); err != nil {
			s.logger.Error("rebuild approval chain failed", zap.String("request_id", id), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	}

	if err := s.repo.RecountClashes(ctx, companyID, id, oldStart, oldEnd); err != nil {
		s.logger.Warn("clash recount failed", zap.String("request_id", id), zap.Error(err))
	}
	s.recountClashes(ctx, lr)
	s.notify(ctx, events.TypeLeaveRequestUpdated, lr, actor)
	return mapRequest(*lr), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error) {
	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}
	return mapRequest(*lr), nil
}

func (s *service) List(ctx context.Context, companyID string, query ListLeaveRequestsQuery) ([]LeaveRequestResponse, *response.PaginationMeta, error) {
	filter := ListFilter{
		Status:      query.Status,
		EmployeeID:  query.EmployeeID,
		LeaveTypeID: query.LeaveTypeID,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return nil, nil, apperror.InvalidField("from")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return nil, nil, apperror.InvalidField("to")
		}
		filter.To = &to
	}

	rows, total, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, nil, err
	}

	resp := make([]LeaveRequestResponse, len(rows))
	for i, lr := range rows {
		resp[i] = mapRequest(lr)
	}
	meta := response.NewPaginationMeta(total, query.Page, query.PageSize)
	return resp, &meta, nil
}

func (s *service) ListOwn(ctx context.Context, companyID string, actor domain.Actor) ([]LeaveRequestResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, companyID, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveRequestResponse, len(rows))
	for i, lr := range rows {
		resp[i] = mapRequest(lr)
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error) {
	if !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}

	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.Status != StatusRequested {
		return LeaveRequestResponse{}, lrerrors.NotApprovable
	}

	complete, err := s.approvalSvc.Approve(ctx, companyID, id, actor)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !complete {
		// The chain advanced but later steps remain.
		return mapRequest(*lr), nil
	}

	if err := s.settleApproval(ctx, companyID, lr, actor); err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapRequest(*lr), nil
}

// settleApproval debits the ledger and moves the request to approved.
func (s *service) settleApproval(ctx context.Context, companyID string, lr *LeaveRequest, actor domain.Actor) error {
	split, err := s.ledgerSvc.Debit(ctx, companyID, lr.EmployeeID.String(), lr.LeaveTypeID.String(), lr.RequestedDays)
	if err != nil {
		return err
	}

	lr.Status = StatusApproved
	lr.ApprovedAvailableDays = split.Available
	lr.ApprovedCarryforwardDays = split.Carryforward

	if err := s.repo.Update(ctx, lr); err != nil {
		// The debit landed but the status write failed; restore the balance.
		if creditErr := s.ledgerSvc.CreditSplit(ctx, companyID, lr.EmployeeID.String(), lr.LeaveTypeID.String(), split); creditErr != nil {
			s.logger.Error("approval rollback credit failed",
				zap.String("request_id", lr.ID.String()),
				zap.Error(creditErr),
			)
		}
		return err
	}

	s.notify(ctx, events.TypeLeaveRequestApproved, lr, actor)
	return nil
}

func (s *service) Reject(ctx context.Context, companyID, id string, actor domain.Actor, reason string) (LeaveRequestResponse, error) {
	if !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}

	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.Status != StatusRequested {
		return LeaveRequestResponse{}, lrerrors.NotApprovable
	}

	lr.Status = StatusRejected
	lr.RejectReason = reason

	if err := s.repo.Update(ctx, lr); err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := s.approvalSvc.CloseChain(ctx, companyID, id, approval.StepRejected); err != nil {
		s.logger.Warn("close approval chain failed", zap.String("request_id", id), zap.Error(err))
	}

	s.recountClashes(ctx, lr)
	s.notify(ctx, events.TypeLeaveRequestRejected, lr, actor)
	return mapRequest(*lr), nil
}

func (s *service) Cancel(ctx context.Context, companyID, id string, actor domain.Actor) (LeaveRequestResponse, error) {
	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return LeaveRequestResponse{}, lrerrors.NotOwner
	}
	if lr.Status != StatusApproved {
		return LeaveRequestResponse{}, lrerrors.NotCancellable
	}
	if !lr.StartDate.After(midnight(s.now())) && !actor.Privileged() {
		return LeaveRequestResponse{}, lrerrors.NotCancellable
	}

	split := ledger.DebitSplit{
		Available:    lr.ApprovedAvailableDays,
		Carryforward: lr.ApprovedCarryforwardDays,
	}
	if err := s.ledgerSvc.CreditSplit(ctx, companyID, lr.EmployeeID.String(), lr.LeaveTypeID.String(), split); err != nil {
		return LeaveRequestResponse{}, err
	}

	lr.Status = StatusCancelled
	lr.ApprovedAvailableDays = decimal.Zero
	lr.ApprovedCarryforwardDays = decimal.Zero

	if err := s.repo.Update(ctx, lr); err != nil {
		s.logger.Error("cancel persist failed after credit", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.recountClashes(ctx, lr)
	s.notify(ctx, events.TypeLeaveRequestCancelled, lr, actor)
	return mapRequest(*lr), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string, actor domain.Actor) error {
	lr, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if lr.EmployeeID.String() != actor.EmployeeID && !actor.Manager() {
		return lrerrors.NotOwner
	}
	if lr.Status != StatusRequested {
		return lrerrors.NotEditable
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.approvalSvc.CloseChain(ctx, companyID, id, approval.StepRejected); err != nil {
		s.logger.Warn("close approval chain failed", zap.String("request_id", id), zap.Error(err))
	}
	if err := s.repo.RecountClashes(ctx, companyID, id, lr.StartDate, lr.EndDate); err != nil {
		s.logger.Warn("clash recount failed", zap.String("request_id", id), zap.Error(err))
	}
	return nil
}

func (s *service) BulkApprove(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse {
	return s.bulk(req.IDs, func(id string) error {
		_, err := s.Approve(ctx, companyID, id, actor)
		return err
	})
}

func (s *service) BulkReject(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse {
	return s.bulk(req.IDs, func(id string) error {
		_, err := s.Reject(ctx, companyID, id, actor, req.Reason)
		return err
	})
}

func (s *service) BulkDelete(ctx context.Context, companyID string, actor domain.Actor, req BulkActionRequest) BulkActionResponse {
	return s.bulk(req.IDs, func(id string) error {
		return s.Delete(ctx, companyID, id, actor)
	})
}

// bulk applies fn per id, collecting failures instead of aborting.
func (s *service) bulk(ids []string, fn func(id string) error) BulkActionResponse {
	resp := BulkActionResponse{Results: make([]BulkActionResult, 0, len(ids))}
	for _, id := range ids {
		if err := fn(id); err != nil {
			resp.Results = append(resp.Results, BulkActionResult{ID: id, Ok: false, Reason: bulkReason(err)})
			continue
		}
		resp.Results = append(resp.Results, BulkActionResult{ID: id, Ok: true})
	}
	return resp
}

type requestWindow struct {
	start     time.Time
	end       time.Time
	startHalf daycount.Half
	endHalf   daycount.Half
	days      decimal.Decimal
}

// buildWindow parses the range, counts chargeable days and subtracts the
// type's excluded calendar days, clamped at zero.
func (s *service) buildWindow(ctx context.Context, companyID string, lt *leavetype.LeaveType, startStr, endStr, startHalfStr, endHalfStr string) (requestWindow, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return requestWindow{}, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return requestWindow{}, apperror.InvalidField("end_date")
	}

	startHalf := daycount.Half(startHalfStr)
	if startHalf == "" {
		startHalf = daycount.Full
	}
	endHalf := daycount.Half(endHalfStr)
	if endHalf == "" {
		endHalf = daycount.Full
	}

	days, err := daycount.Count(start, end, startHalf, endHalf)
	if err != nil {
		return requestWindow{}, err
	}

	excluded, err := s.calendarSvc.ExcludedCount(ctx, companyID, start, end, lt.ExcludeHoliday, lt.ExcludeCompanyLeave)
	if err != nil {
		return requestWindow{}, err
	}
	days = days.Sub(decimal.NewFromInt(int64(excluded)))
	if days.IsNegative() {
		days = decimal.Zero
	}
	if days.IsZero() {
		return requestWindow{}, lrerrors.EmptyRequest
	}

	return requestWindow{
		start:     start,
		end:       end,
		startHalf: startHalf,
		endHalf:   endHalf,
		days:      days,
	}, nil
}

func (s *service) load(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	lr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lrerrors.RequestNotFound
		}
		return nil, err
	}
	return lr, nil
}

func (s *service) recountClashes(ctx context.Context, lr *LeaveRequest) {
	if err := s.repo.RecountClashes(ctx, lr.CompanyID.String(), lr.ID.String(), lr.StartDate, lr.EndDate); err != nil {
		s.logger.Warn("clash recount failed", zap.String("request_id", lr.ID.String()), zap.Error(err))
	}
}

func (s *service) notify(ctx context.Context, eventType string, lr *LeaveRequest, actor domain.Actor) {
	s.notifier.Notify(ctx, events.LeaveLifecycleEvent{
		EventType:  eventType,
		CompanyID:  lr.CompanyID.String(),
		EmployeeID: lr.EmployeeID.String(),
		ResourceID: lr.ID.String(),
		ActorID:    actor.EmployeeID,
		OccurredAt: s.now().UTC(),
	})
}

func bulkReason(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func mapRequest(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                       lr.ID.String(),
		CompanyID:                lr.CompanyID.String(),
		EmployeeID:               lr.EmployeeID.String(),
		LeaveTypeID:              lr.LeaveTypeID.String(),
		RequestNumber:            lr.RequestNumber,
		StartDate:                lr.StartDate.Format("2006-01-02"),
		EndDate:                  lr.EndDate.Format("2006-01-02"),
		StartHalf:                string(lr.StartHalf),
		EndHalf:                  string(lr.EndHalf),
		RequestedDays:            lr.RequestedDays.String(),
		Status:                   lr.Status,
		Description:              lr.Description,
		ApprovedAvailableDays:    lr.ApprovedAvailableDays.String(),
		ApprovedCarryforwardDays: lr.ApprovedCarryforwardDays.String(),
		LeaveClashesCount:        lr.LeaveClashesCount,
		RejectReason:             lr.RejectReason,
		CreatedAt:                lr.CreatedAt.Format(time.RFC3339),
	}
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
