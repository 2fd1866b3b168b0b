package compensatory_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/attendance"
	"go-leave/internal/calendar"
	"go-leave/internal/compensatory"
	comperrors "go-leave/internal/compensatory/errors"
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

type fakeCompRepository struct {
	createFn   func(ctx context.Context, cr *compensatory.CompensatoryLeaveRequest) error
	findByIDFn func(ctx context.Context, companyID, id string) (*compensatory.CompensatoryLeaveRequest, error)
	updateFn   func(ctx context.Context, cr *compensatory.CompensatoryLeaveRequest) error
}

func (f *fakeCompRepository) Create(ctx context.Context, cr *compensatory.CompensatoryLeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, cr)
	}
	return nil
}

func (f *fakeCompRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*compensatory.CompensatoryLeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompRepository) FindAllByCompany(ctx context.Context, companyID string) ([]compensatory.CompensatoryLeaveRequest, error) {
	return nil, nil
}

func (f *fakeCompRepository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]compensatory.CompensatoryLeaveRequest, error) {
	return nil, nil
}

func (f *fakeCompRepository) Update(ctx context.Context, cr *compensatory.CompensatoryLeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, cr)
	}
	return nil
}

func (f *fakeCompRepository) ReplaceAttendances(ctx context.Context, cr *compensatory.CompensatoryLeaveRequest, attendances []compensatory.CompensatoryAttendance) error {
	return nil
}

func (f *fakeCompRepository) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

type fakeTypeRepository struct {
	compType *leavetype.LeaveType
}

func (f *fakeTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error { return nil }

func (f *fakeTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) FindCompensatoryByCompany(ctx context.Context, companyID string) (*leavetype.LeaveType, error) {
	if f.compType != nil {
		return f.compType, nil
	}
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

type fakeAttendanceRepository struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepository) FindByIDsAndEmployee(ctx context.Context, companyID, employeeID string, ids []string) ([]attendance.Attendance, error) {
	return f.records, nil
}

type fakeCalendarService struct {
	calendar.Service

	excludedCountFn func(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error)
}

func (f *fakeCalendarService) ExcludedCount(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error) {
	if f.excludedCountFn != nil {
		return f.excludedCountFn(ctx, companyID, start, end, excludeHoliday, excludeCompany)
	}
	return 1, nil
}

type fakeLedgerService struct {
	ledger.Service

	creditFn func(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error
	assignFn func(ctx context.Context, companyID, actorID string, req ledger.AssignRequest) (ledger.AssignmentResponse, error)
	debitFn  func(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error)
}

func (f *fakeLedgerService) Credit(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) error {
	if f.creditFn != nil {
		return f.creditFn(ctx, companyID, employeeID, leaveTypeID, amount)
	}
	return nil
}

func (f *fakeLedgerService) Assign(ctx context.Context, companyID, actorID string, req ledger.AssignRequest) (ledger.AssignmentResponse, error) {
	if f.assignFn != nil {
		return f.assignFn(ctx, companyID, actorID, req)
	}
	return ledger.AssignmentResponse{}, nil
}

func (f *fakeLedgerService) DebitClamped(ctx context.Context, companyID, employeeID, leaveTypeID string, amount decimal.Decimal) (ledger.DebitSplit, error) {
	if f.debitFn != nil {
		return f.debitFn(ctx, companyID, employeeID, leaveTypeID, amount)
	}
	return ledger.DebitSplit{Available: amount}, nil
}

type capturingNotifier struct {
	events []events.LeaveLifecycleEvent
}

func (n *capturingNotifier) Notify(ctx context.Context, event events.LeaveLifecycleEvent) {
	n.events = append(n.events, event)
}

type compEnv struct {
	repo     *fakeCompRepository
	attRepo  *fakeAttendanceRepository
	calendar *fakeCalendarService
	ledger   *fakeLedgerService
	notifier *capturingNotifier

	companyID  uuid.UUID
	employeeID uuid.UUID
	compType   *leavetype.LeaveType
}

func newCompEnv() *compEnv {
	env := &compEnv{
		repo:       &fakeCompRepository{},
		attRepo:    &fakeAttendanceRepository{},
		calendar:   &fakeCalendarService{},
		ledger:     &fakeLedgerService{},
		notifier:   &capturingNotifier{},
		companyID:  uuid.New(),
		employeeID: uuid.New(),
	}
	env.compType = &leavetype.LeaveType{
		ID:             uuid.New(),
		CompanyID:      env.companyID,
		Name:           "Compensatory Leave",
		IsCompensatory: true,
	}
	return env
}

func (env *compEnv) service() compensatory.Service {
	return compensatory.NewService(
		env.repo,
		&fakeTypeRepository{compType: env.compType},
		&fakeEmployeeRepository{emp: &employee.Employee{ID: env.employeeID, CompanyID: env.companyID}},
		env.attRepo,
		env.calendar,
		env.ledger,
		env.notifier,
	)
}

func (env *compEnv) attendanceRecord(hours float64) attendance.Attendance {
	return attendance.Attendance{
		ID:             uuid.New(),
		CompanyID:      env.companyID,
		EmployeeID:     env.employeeID,
		AttendanceDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		WorkedHours:    hours,
	}
}

func (env *compEnv) employeeActor() domain.Actor {
	return domain.Actor{EmployeeID: env.employeeID.String(), Role: domain.RoleEmployee}
}

func compManager() domain.Actor {
	return domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
}

func attendanceIDs(records []attendance.Attendance) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID.String()
	}
	return ids
}

func TestCreditForHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{9, "1"},
		{8, "1"},
		{7.5, "0.5"},
		{4, "0.5"},
		{3.9, "0"},
		{0, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, compensatory.CreditForHours(tc.hours).String())
	}
}

func TestCreateCompensatory_DerivesDaysFromWorkedHours(t *testing.T) {
	env := newCompEnv()
	env.attRepo.records = []attendance.Attendance{
		env.attendanceRecord(8),   // full day
		env.attendanceRecord(5),   // half day
		env.attendanceRecord(3.5), // below the half-day bucket
	}

	resp, err := env.service().Create(context.Background(), env.companyID.String(), env.employeeActor(), compensatory.CreateCompensatoryRequest{
		AttendanceIDs: attendanceIDs(env.attRepo.records),
	})

	require.NoError(t, err)
	assert.Equal(t, "1.5", resp.RequestedDays)
	assert.Equal(t, compensatory.StatusRequested, resp.Status)
	assert.Equal(t, env.compType.ID.String(), resp.LeaveTypeID)
	assert.Len(t, resp.AttendanceIDs, 3)
	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, events.TypeCompensatoryCreated, env.notifier.events[0].EventType)
}

func TestCreateCompensatory_WorkingDayRejected(t *testing.T) {
	env := newCompEnv()
	env.attRepo.records = []attendance.Attendance{env.attendanceRecord(8)}
	env.calendar.excludedCountFn = func(ctx context.Context, cid string, start, end time.Time, h, c bool) (int, error) {
		return 0, nil
	}

	_, err := env.service().Create(context.Background(), env.companyID.String(), env.employeeActor(), compensatory.CreateCompensatoryRequest{
		AttendanceIDs: attendanceIDs(env.attRepo.records),
	})

	assert.ErrorIs(t, err, comperrors.AttendanceNotExcluded)
}

func TestCreateCompensatory_NoCompensatoryType(t *testing.T) {
	env := newCompEnv()
	env.compType = nil
	env.attRepo.records = []attendance.Attendance{env.attendanceRecord(8)}

	_, err := env.service().Create(context.Background(), env.companyID.String(), env.employeeActor(), compensatory.CreateCompensatoryRequest{
		AttendanceIDs: attendanceIDs(env.attRepo.records),
	})

	assert.ErrorIs(t, err, comperrors.NoCompensatoryType)
}

func TestCreateCompensatory_NoCreditableHours(t *testing.T) {
	env := newCompEnv()
	env.attRepo.records = []attendance.Attendance{env.attendanceRecord(2)}

	_, err := env.service().Create(context.Background(), env.companyID.String(), env.employeeActor(), compensatory.CreateCompensatoryRequest{
		AttendanceIDs: attendanceIDs(env.attRepo.records),
	})

	assert.ErrorIs(t, err, comperrors.NoCreditableHours)
}

func TestCreateCompensatory_UnknownAttendanceRejected(t *testing.T) {
	env := newCompEnv()
	env.attRepo.records = []attendance.Attendance{env.attendanceRecord(8)}

	_, err := env.service().Create(context.Background(), env.companyID.String(), env.employeeActor(), compensatory.CreateCompensatoryRequest{
		AttendanceIDs: append(attendanceIDs(env.attRepo.records), uuid.New().String()),
	})

	assert.ErrorIs(t, err, comperrors.AttendanceNotFound)
}

func (env *compEnv) pending() *compensatory.CompensatoryLeaveRequest {
	return &compensatory.CompensatoryLeaveRequest{
		ID:            uuid.New(),
		CompanyID:     env.companyID,
		EmployeeID:    env.employeeID,
		LeaveTypeID:   env.compType.ID,
		RequestedDays: decimal.NewFromFloat(1.5),
		Status:        compensatory.StatusRequested,
	}
}

func TestApproveCompensatory_CreditsLedger(t *testing.T) {
	env := newCompEnv()
	cr := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*compensatory.CompensatoryLeaveRequest, error) {
		cp := *cr
		return &cp, nil
	}

	var credited decimal.Decimal
	env.ledger.creditFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) error {
		credited = amount
		return nil
	}

	resp, err := env.service().Approve(context.Background(), env.companyID.String(), cr.ID.String(), compManager())

	require.NoError(t, err)
	assert.Equal(t, compensatory.StatusApproved, resp.Status)
	assert.True(t, credited.Equal(decimal.NewFromFloat(1.5)))
}

func TestApproveCompensatory_AssignsOnFirstApproval(t *testing.T) {
	env := newCompEnv()
	cr := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*compensatory.CompensatoryLeaveRequest, error) {
		cp := *cr
		return &cp, nil
	}

	assigned := false
	creditCalls := 0
	env.ledger.creditFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) error {
		creditCalls++
		if !assigned {
			return ledgererrors.AssignmentNotFound
		}
		return nil
	}
	env.ledger.assignFn = func(ctx context.Context, cid, actorID string, req ledger.AssignRequest) (ledger.AssignmentResponse, error) {
		assigned = true
		assert.Equal(t, env.employeeID.String(), req.EmployeeID)
		assert.Equal(t, env.compType.ID.String(), req.LeaveTypeID)
		return ledger.AssignmentResponse{}, nil
	}

	resp, err := env.service().Approve(context.Background(), env.companyID.String(), cr.ID.String(), compManager())

	require.NoError(t, err)
	assert.Equal(t, compensatory.StatusApproved, resp.Status)
	assert.True(t, assigned)
	assert.Equal(t, 2, creditCalls)
}

func TestRejectApprovedCompensatory_DebitsBack(t *testing.T) {
	env := newCompEnv()
	cr := env.pending()
	cr.Status = compensatory.StatusApproved
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*compensatory.CompensatoryLeaveRequest, error) {
		cp := *cr
		return &cp, nil
	}

	var debited decimal.Decimal
	env.ledger.debitFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) (ledger.DebitSplit, error) {
		debited = amount
		return ledger.DebitSplit{Available: amount}, nil
	}

	resp, err := env.service().Reject(context.Background(), env.companyID.String(), cr.ID.String(), compManager(), "not an excluded day after all")

	require.NoError(t, err)
	assert.Equal(t, compensatory.StatusRejected, resp.Status)
	assert.True(t, debited.Equal(decimal.NewFromFloat(1.5)))
}

func TestRejectRequestedCompensatory_NoLedgerTouch(t *testing.T) {
	env := newCompEnv()
	cr := env.pending()
	env.repo.findByIDFn = func(ctx context.Context, cid, id string) (*compensatory.CompensatoryLeaveRequest, error) {
		cp := *cr
		return &cp, nil
	}

	debitCalled := false
	env.ledger.debitFn = func(ctx context.Context, cid, eid, ltid string, amount decimal.Decimal) (ledger.DebitSplit, error) {
		debitCalled = true
		return ledger.DebitSplit{}, nil
	}

	resp, err := env.service().Reject(context.Background(), env.companyID.String(), cr.ID.String(), compManager(), "duplicate claim")

	require.NoError(t, err)
	assert.Equal(t, compensatory.StatusRejected, resp.Status)
	assert.False(t, debitCalled)
}
