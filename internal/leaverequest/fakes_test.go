package leaverequest_test

import (
	"context"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/calendar"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/restriction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	createFn          func(ctx context.Context, lr *leaverequest.LeaveRequest) error
	findByIDFn        func(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error)
	findAllFn         func(ctx context.Context, companyID string, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, int64, error)
	findByEmployeeFn  func(ctx context.Context, companyID, employeeID string) ([]leaverequest.LeaveRequest, error)
	findOverlappingFn func(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) ([]leaverequest.LeaveRequest, error)
	updateFn          func(ctx context.Context, lr *leaverequest.LeaveRequest) error
	deleteFn          func(ctx context.Context, companyID, id string) error
	recountClashesFn  func(ctx context.Context, companyID, requestID string, start, end time.Time) error
}

func (f *fakeRequestRepository) Create(ctx context.Context, lr *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, lr)
	}
	return nil
}

func (f *fakeRequestRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) FindAllByCompany(ctx context.Context, companyID string, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, filter)
	}
	return nil, 0, nil
}

func (f *fakeRequestRepository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]leaverequest.LeaveRequest, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) FindOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) ([]leaverequest.LeaveRequest, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, companyID, employeeID, start, end, excludeID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) Update(ctx context.Context, lr *leaverequest.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lr)
	}
	return nil
}

func (f *fakeRequestRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeRequestRepository) RecountClashes(ctx context.Context, companyID, requestID string, start, end time.Time) error {
	if f.recountClashesFn != nil {
		return f.recountClashesFn(ctx, companyID, requestID, start, end)
	}
	return nil
}

type fakeTypeRepository struct {
	findByIDFn func(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
}

func (f *fakeTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) FindCompensatoryByCompany(ctx context.Context, companyID string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindAssignOnJoinByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error { return nil }
func (f *fakeTypeRepository) Delete(ctx context.Context, companyID, id string) error    { return nil }

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByDepartment(ctx context.Context, companyID, departmentID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return true, nil
}

type fakeCalendarService struct {
	excludedCountFn func(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error)
}

func (f *fakeCalendarService) CreateHoliday(ctx context.Context, companyID string, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	return calendar.HolidayResponse{}, nil
}

func (f *fakeCalendarService) GetHolidays(ctx context.Context, companyID string) ([]calendar.HolidayResponse, error) {
	return nil, nil
}

func (f *fakeCalendarService) UpdateHoliday(ctx context.Context, companyID, id string, req calendar.UpdateHolidayRequest) (calendar.HolidayResponse, error) {
	return calendar.HolidayResponse{}, nil
}

func (f *fakeCalendarService) DeleteHoliday(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeCalendarService) CreateCompanyLeave(ctx context.Context, companyID string, req calendar.CreateCompanyLeaveRequest) (calendar.CompanyLeaveResponse, error) {
	return calendar.CompanyLeaveResponse{}, nil
}

func (f *fakeCalendarService) GetCompanyLeaves(ctx context.Context, companyID string) ([]calendar.CompanyLeaveResponse, error) {
	return nil, nil
}

func (f *fakeCalendarService) DeleteCompanyLeave(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeCalendarService) YearIndexFor(ctx context.Context, companyID string, year int) (*calendar.YearIndex, error) {
	return &calendar.YearIndex{Year: year}, nil
}

func (f *fakeCalendarService) ExcludedCount(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error) {
	if f.excludedCountFn != nil {
		return f.excludedCountFn(ctx, companyID, start, end, excludeHoliday, excludeCompany)
	}
	return 0, nil
}

type fakeLedgerService struct {
	balanceFn     func(ctx context.Context, companyID, employeeID, leaveTypeID string) (*ledger.AvailableLeave, error)
	debitFn       func(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error)
	creditSplitFn func(ctx context.Context, companyID, employeeID, leaveTypeID string, split ledger.DebitSplit) error
}

func (f *fakeLedgerService) Assign(ctx context.Context, companyID, actorID string, req ledger.AssignRequest) (ledger.AssignmentResponse, error) {
	return ledger.AssignmentResponse{}, nil
}

func (f *fakeLedgerService) BulkAssign(ctx context.Context, companyID, actorID string, req ledger.BulkAssignRequest) (ledger.BulkAssignResponse, error) {
	return ledger.BulkAssignResponse{}, nil
}

func (f *fakeLedgerService) Unassign(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeLedgerService) GetEmployeeBalances(ctx context.Context, companyID, employeeID string) ([]ledger.AssignmentResponse, error) {
	return nil, nil
}

func (f *fakeLedgerService) GetCompanyAssignments(ctx context.Context, companyID string) ([]ledger.AssignmentResponse, error) {
	return nil, nil
}

func (f *fakeLedgerService) Balance(ctx context.Context, companyID, employeeID, leaveTypeID string) (*ledger.AvailableLeave, error) {
	if f.balanceFn != nil {
		return f.balanceFn(ctx, companyID, employeeID, leaveTypeID)
	}
	al := &ledger.AvailableLeave{AvailableDays: decimal.NewFromInt(100)}
	al.RecomputeTotal()
	return al, nil
}

func (f *fakeLedgerService) Debit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error) {
	if f.debitFn != nil {
		return f.debitFn(ctx, companyID, employeeID, leaveTypeID, amount)
	}
	return ledger.DebitSplit{Available: amount}, nil
}

func (f *fakeLedgerService) DebitClamped(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error) {
	return ledger.DebitSplit{Available: amount}, nil
}

func (f *fakeLedgerService) Credit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error {
	return nil
}

func (f *fakeLedgerService) CreditSplit(ctx context.Context, companyID, employeeID, leaveTypeID string, split ledger.DebitSplit) error {
	if f.creditSplitFn != nil {
		return f.creditSplitFn(ctx, companyID, employeeID, leaveTypeID, split)
	}
	return nil
}

func (f *fakeLedgerService) FillMissingResetDates(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeLedgerService) DueResets(ctx context.Context, asOf time.Time) ([]ledger.AvailableLeave, error) {
	return nil, nil
}

func (f *fakeLedgerService) DueExpiries(ctx context.Context, asOf time.Time) ([]ledger.AvailableLeave, error) {
	return nil, nil
}

func (f *fakeLedgerService) ApplyReset(ctx context.Context, al *ledger.AvailableLeave) error {
	return nil
}

func (f *fakeLedgerService) ApplyExpiry(ctx context.Context, al *ledger.AvailableLeave) error {
	return nil
}

func (f *fakeLedgerService) Forecast(ctx context.Context, companyID, employeeID, leaveTypeID string, months int) ([]ledger.ForecastPoint, error) {
	return nil, nil
}

type fakeApprovalService struct {
	resolveChainFn func(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error)
	approveFn      func(ctx context.Context, companyID, leaveRequestID string, actor domain.Actor) (bool, error)
	closeChainFn   func(ctx context.Context, companyID, leaveRequestID, status string) error
}

func (f *fakeApprovalService) CreateCondition(ctx context.Context, companyID string, req approval.CreateConditionRequest) (approval.ConditionResponse, error) {
	return approval.ConditionResponse{}, nil
}

func (f *fakeApprovalService) GetConditions(ctx context.Context, companyID string) ([]approval.ConditionResponse, error) {
	return nil, nil
}

func (f *fakeApprovalService) GetCondition(ctx context.Context, companyID, id string) (approval.ConditionResponse, error) {
	return approval.ConditionResponse{}, nil
}

func (f *fakeApprovalService) UpdateCondition(ctx context.Context, companyID, id string, req approval.UpdateConditionRequest) (approval.ConditionResponse, error) {
	return approval.ConditionResponse{}, nil
}

func (f *fakeApprovalService) DeleteCondition(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeApprovalService) ResolveChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error) {
	if f.resolveChainFn != nil {
		return f.resolveChainFn(ctx, companyID, departmentID, leaveRequestID, days)
	}
	return false, nil
}

func (f *fakeApprovalService) RebuildChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error) {
	return f.ResolveChain(ctx, companyID, departmentID, leaveRequestID, days)
}

func (f *fakeApprovalService) Approve(ctx context.Context, companyID, leaveRequestID string, actor domain.Actor) (bool, error) {
	if f.approveFn != nil {
		return f.approveFn(ctx, companyID, leaveRequestID, actor)
	}
	return true, nil
}

func (f *fakeApprovalService) CloseChain(ctx context.Context, companyID, leaveRequestID, status string) error {
	if f.closeChainFn != nil {
		return f.closeChainFn(ctx, companyID, leaveRequestID, status)
	}
	return nil
}

func (f *fakeApprovalService) GetChain(ctx context.Context, companyID, leaveRequestID string) ([]approval.ChainStepResponse, error) {
	return nil, nil
}

type fakeRestrictionService struct {
	checkFn func(ctx context.Context, companyID string, departmentID, positionID *uuid.UUID, start, end time.Time, actor domain.Actor) error
}

func (f *fakeRestrictionService) Create(ctx context.Context, companyID string, req restriction.CreateRestrictionRequest) (restriction.RestrictionResponse, error) {
	return restriction.RestrictionResponse{}, nil
}

func (f *fakeRestrictionService) GetAll(ctx context.Context, companyID string) ([]restriction.RestrictionResponse, error) {
	return nil, nil
}

func (f *fakeRestrictionService) GetByID(ctx context.Context, companyID, id string) (restriction.RestrictionResponse, error) {
	return restriction.RestrictionResponse{}, nil
}

func (f *fakeRestrictionService) Update(ctx context.Context, companyID, id string, req restriction.UpdateRestrictionRequest) (restriction.RestrictionResponse, error) {
	return restriction.RestrictionResponse{}, nil
}

func (f *fakeRestrictionService) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeRestrictionService) Check(ctx context.Context, companyID string, departmentID, positionID *uuid.UUID, start, end time.Time, actor domain.Actor) error {
	if f.checkFn != nil {
		return f.checkFn(ctx, companyID, departmentID, positionID, start, end, actor)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type capturingNotifier struct {
	events []events.LeaveLifecycleEvent
}

func (n *capturingNotifier) Notify(ctx context.Context, event events.LeaveLifecycleEvent) {
	n.events = append(n.events, event)
}

func (n *capturingNotifier) types() []string {
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.EventType
	}
	return out
}
