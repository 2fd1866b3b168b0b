package allocation_test

import (
	"context"
	"testing"

	"go-leave/internal/allocation"
	allocerrors "go-leave/internal/allocation/errors"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/ledger"
	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAllocationRepository struct {
	createFn   func(ctx context.Context, a *allocation.LeaveAllocationRequest) error
	findByIDFn func(ctx context.Context, companyID, id string) (*allocation.LeaveAllocationRequest, error)
	updateFn   func(ctx context.Context, a *allocation.LeaveAllocationRequest) error
	deleteFn   func(ctx context.Context, companyID, id string) error
}

func (f *fakeAllocationRepository) Create(ctx context.Context, a *allocation.LeaveAllocationRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAllocationRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*allocation.LeaveAllocationRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAllocationRepository) FindAllByCompany(ctx context.Context, companyID string) ([]allocation.LeaveAllocationRequest, error) {
	return nil, nil
}

func (f *fakeAllocationRepository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]allocation.LeaveAllocationRequest, error) {
	return nil, nil
}

func (f *fakeAllocationRepository) Update(ctx context.Context, a *allocation.LeaveAllocationRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAllocationRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type fakeTypeRepository struct {
	lt *leavetype.LeaveType
}

func (f *fakeTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	if f.lt != nil {
		return f.lt, nil
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
	emp *employee.Employee
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.emp != nil {
		return f.emp, nil
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

type fakeLedgerService struct {
	ledger.Service

	creditFn func(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error
}

func (f *fakeLedgerService) Credit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error {
	if f.creditFn != nil {
		return f.creditFn(ctx, companyID, employeeID, leaveTypeID, amount)
	}
	return nil
}

func (f *fakeLedgerService) DebitClamped(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error) {
	return ledger.DebitSplit{Available: amount}, nil
}

type capturingNotifier struct {
	events []events.LeaveLifecycleEvent
}

func (n *capturingNotifier) Notify(ctx context.Context, event events.LeaveLifecycleEvent) {
	n.events = append(n.events, event)
}

type allocEnv struct {
	repo     *fakeAllocationRepository
	ledger   *fakeLedgerService
	notifier *capturingNotifier

	companyID  uuid.UUID
	employeeID uuid.UUID
	lt         *leavetype.LeaveType
}

func newAllocEnv() *allocEnv {
	env := &allocEnv{
		repo:       &fakeAllocationRepository{},
		ledger:     &fakeLedgerService{},
		notifier:   &capturingNotifier{},
		companyID:  uuid.New(),
		employeeID: uuid.New(),
	}
	env.lt = &leavetype.LeaveType{
		ID:        uuid.New(),
		CompanyID: env.companyID,
		Name:      "Annual Leave",
	}
	return env
}

func (env *allocEnv) service() allocation.Service {
	return allocation.NewService(
		env.repo,
		&fakeTypeRepository{lt: env.lt},
		&fakeEmployeeRepository{emp: &employee.Employee{ID: env.employeeID, CompanyID: env.companyID}},
		env.ledger,
		env.notifier,
	)
}

func (env *allocEnv) pending() *allocation.LeaveAllocationRequest {
	return &allocation.LeaveAllocationRequest{
		ID:            uuid.New(),
		CompanyID:     env.companyID,
		EmployeeID:    env.employeeID,
		LeaveTypeID:   env.lt.ID,
		RequestedDays: decimal.NewFromInt(3),
		Status:        allocation.StatusRequested,
	}
}

func manager() domain.Actor {
	return domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
}

func TestCreateAllocation(t *testing.T) {
	env := newAllocEnv()

	resp, err := env.service().Create(context.Background(), env.companyID.String(), domain.Actor{
		EmployeeID: env.employeeID.String(),
		Role:       domain.RoleEmployee,
	}, allocation.CreateAllocationRequest{
		LeaveTypeID:   env.lt.ID.String(),
		RequestedDays: "3",
	})

	require.NoError(t, err)
	assert.Equal(t, allocation.StatusRequested, resp.Status)
	assert.Equal(t, "3", resp.RequestedDays)
	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, events.TypeAllocationCreated, env.notifier.events[0].EventType)
}

func TestCreateAllocation_NonPositiveDaysRejected(t *testing.T) {
	env := newAllocEnv()

	for _, raw := range []string{"0", "-1", "abc"} {
		t.Run(raw, func(t *testing.T) {
			_, err := env.service().Create(context.Background(), env.companyID.String(), domain.Actor{
				EmployeeID: env.employeeID.String(),
				Role:       domain.RoleEmployee,
			}, allocation.CreateAllocationRequest{
				LeaveTypeID:   env.lt.ID.String(),
				RequestedDays: raw,
			})
			assert.ErrorIs(t, err, allocerrors.InvalidDays)
		})
	}
}

func TestApproveAllocation_CreditsAvailableDays(t *testing.T) {
	env := newAllocEnv()
	a := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*allocation.LeaveAllocationRequest, error) {
		cp := *a
		return &cp, nil
	}

	var credited decimal.Decimal
	env.ledger.creditFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) error {
		credited = amount
		return nil
	}

	resp, err := env.service().Approve(context.Background(), env.companyID.String(), a.ID.String(), manager())

	require.NoError(t, err)
	assert.Equal(t, allocation.StatusApproved, resp.Status)
	assert.True(t, credited.Equal(decimal.NewFromInt(3)))
	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, events.TypeAllocationApproved, env.notifier.events[0].EventType)
}

func TestApproveAllocation_NoAssignmentFails(t *testing.T) {
	env := newAllocEnv()
	a := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*allocation.LeaveAllocationRequest, error) {
		cp := *a
		return &cp, nil
	}
	env.ledger.creditFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) error {
		return ledgererrors.AssignmentNotFound
	}

	_, err := env.service().Approve(context.Background(), env.companyID.String(), a.ID.String(), manager())

	assert.ErrorIs(t, err, ledgererrors.AssignmentNotFound)
	assert.Empty(t, env.notifier.events)
}

func TestApproveAllocation_EmployeeForbidden(t *testing.T) {
	env := newAllocEnv()

	_, err := env.service().Approve(context.Background(), env.companyID.String(), uuid.New().String(), domain.Actor{
		EmployeeID: env.employeeID.String(),
		Role:       domain.RoleEmployee,
	})

	assert.ErrorIs(t, err, allocerrors.NotOwner)
}

func TestRejectAllocation_NoLedgerTouch(t *testing.T) {
	env := newAllocEnv()
	a := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*allocation.LeaveAllocationRequest, error) {
		cp := *a
		return &cp, nil
	}

	creditCalled := false
	env.ledger.creditFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) error {
		creditCalled = true
		return nil
	}

	resp, err := env.service().Reject(context.Background(), env.companyID.String(), a.ID.String(), manager(), "headcount freeze")

	require.NoError(t, err)
	assert.Equal(t, allocation.StatusRejected, resp.Status)
	assert.Equal(t, "headcount freeze", resp.RejectReason)
	assert.False(t, creditCalled)
}

func TestApproveAllocation_TerminalStateRejected(t *testing.T) {
	env := newAllocEnv()
	a := env.pending()
	a.Status = allocation.StatusApproved
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*allocation.LeaveAllocationRequest, error) {
		cp := *a
		return &cp, nil
	}

	_, err := env.service().Approve(context.Background(), env.companyID.String(), a.ID.String(), manager())

	assert.ErrorIs(t, err, allocerrors.NotApprovable)
}

func TestUpdateAllocation_TerminalStateRejected(t *testing.T) {
	env := newAllocEnv()
	a := env.pending()
	a.Status = allocation.StatusRejected
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*allocation.LeaveAllocationRequest, error) {
		cp := *a
		return &cp, nil
	}

	_, err := env.service().Update(context.Background(), env.companyID.String(), a.ID.String(), domain.Actor{
		EmployeeID: env.employeeID.String(),
		Role:       domain.RoleEmployee,
	}, allocation.UpdateAllocationRequest{
		LeaveTypeID:   env.lt.ID.String(),
		RequestedDays: "5",
	})

	assert.ErrorIs(t, err, allocerrors.NotEditable)
}

