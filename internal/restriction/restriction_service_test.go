package restriction_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/restriction"
	restrictionerrors "go-leave/internal/restriction/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRestrictionRepository struct {
	createFn           func(ctx context.Context, rl *restriction.RestrictLeave) error
	findByIDFn         func(ctx context.Context, companyID, id string) (*restriction.RestrictLeave, error)
	findAllByCompanyFn func(ctx context.Context, companyID string) ([]restriction.RestrictLeave, error)
	findActiveFn       func(ctx context.Context, companyID, departmentID string, start, end time.Time) ([]restriction.RestrictLeave, error)
	updateFn           func(ctx context.Context, rl *restriction.RestrictLeave) error
	replacePositionsFn func(ctx context.Context, id string, positions []restriction.RestrictLeavePosition) error
	deleteFn           func(ctx context.Context, companyID, id string) error
}

func (f *fakeRestrictionRepository) Create(ctx context.Context, rl *restriction.RestrictLeave) error {
	if f.createFn != nil {
		return f.createFn(ctx, rl)
	}
	return nil
}

func (f *fakeRestrictionRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*restriction.RestrictLeave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRestrictionRepository) FindAllByCompany(ctx context.Context, companyID string) ([]restriction.RestrictLeave, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRestrictionRepository) FindActive(ctx context.Context, companyID, departmentID string, start, end time.Time) ([]restriction.RestrictLeave, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, companyID, departmentID, start, end)
	}
	return nil, nil
}

func (f *fakeRestrictionRepository) Update(ctx context.Context, rl *restriction.RestrictLeave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, rl)
	}
	return nil
}

func (f *fakeRestrictionRepository) ReplacePositions(ctx context.Context, id string, positions []restriction.RestrictLeavePosition) error {
	if f.replacePositionsFn != nil {
		return f.replacePositionsFn(ctx, id, positions)
	}
	return nil
}

func (f *fakeRestrictionRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Department D is blocked January 10 to 15. A request for January 12 to 13
// from D fails, the same dates from department E pass.
func TestCheck_DepartmentWindow(t *testing.T) {
	companyID := uuid.New()
	deptD := uuid.New()
	deptE := uuid.New()

	block := restriction.RestrictLeave{
		ID:           uuid.New(),
		CompanyID:    companyID,
		DepartmentID: deptD,
		StartDate:    day(2026, time.January, 10),
		EndDate:      day(2026, time.January, 15),
	}
	repo := &fakeRestrictionRepository{
		findActiveFn: func(ctx context.Context, cid, did string, start, end time.Time) ([]restriction.RestrictLeave, error) {
			if did == deptD.String() {
				return []restriction.RestrictLeave{block}, nil
			}
			return nil, nil
		},
	}
	svc := restriction.NewService(repo)
	employeeActor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}

	err := svc.Check(context.Background(), companyID.String(), &deptD, nil, day(2026, time.January, 12), day(2026, time.January, 13), employeeActor)
	assert.ErrorIs(t, err, restrictionerrors.LeaveRestricted)

	err = svc.Check(context.Background(), companyID.String(), &deptE, nil, day(2026, time.January, 12), day(2026, time.January, 13), employeeActor)
	assert.NoError(t, err)
}

func TestCheck_PrivilegedBypasses(t *testing.T) {
	deptD := uuid.New()
	repo := &fakeRestrictionRepository{
		findActiveFn: func(ctx context.Context, cid, did string, start, end time.Time) ([]restriction.RestrictLeave, error) {
			t.Fatal("privileged check must not hit the repository")
			return nil, nil
		},
	}
	svc := restriction.NewService(repo)

	err := svc.Check(context.Background(), uuid.New().String(), &deptD, nil,
		day(2026, time.January, 12), day(2026, time.January, 13),
		domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleAdmin})

	assert.NoError(t, err)
}

func TestCheck_NoDepartmentPasses(t *testing.T) {
	svc := restriction.NewService(&fakeRestrictionRepository{})

	err := svc.Check(context.Background(), uuid.New().String(), nil, nil,
		day(2026, time.January, 12), day(2026, time.January, 13),
		domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee})

	assert.NoError(t, err)
}

func TestAppliesTo_PositionSubset(t *testing.T) {
	blockedPosition := uuid.New()
	otherPosition := uuid.New()
	block := restriction.RestrictLeave{
		StartDate: day(2026, time.January, 10),
		EndDate:   day(2026, time.January, 15),
		Positions: []restriction.RestrictLeavePosition{
			{PositionID: blockedPosition},
		},
	}

	t.Run("listed position blocked", func(t *testing.T) {
		assert.True(t, block.AppliesTo(&blockedPosition, day(2026, time.January, 12), day(2026, time.January, 12)))
	})

	t.Run("unlisted position passes", func(t *testing.T) {
		assert.False(t, block.AppliesTo(&otherPosition, day(2026, time.January, 12), day(2026, time.January, 12)))
	})

	t.Run("nil position passes a scoped block", func(t *testing.T) {
		assert.False(t, block.AppliesTo(nil, day(2026, time.January, 12), day(2026, time.January, 12)))
	})

	t.Run("empty position list blocks everyone", func(t *testing.T) {
		broad := restriction.RestrictLeave{
			StartDate: day(2026, time.January, 10),
			EndDate:   day(2026, time.January, 15),
		}
		assert.True(t, broad.AppliesTo(nil, day(2026, time.January, 12), day(2026, time.January, 12)))
		assert.True(t, broad.AppliesTo(&otherPosition, day(2026, time.January, 12), day(2026, time.January, 12)))
	})
}

func TestAppliesTo_DateIntersection(t *testing.T) {
	block := restriction.RestrictLeave{
		StartDate: day(2026, time.January, 10),
		EndDate:   day(2026, time.January, 15),
	}

	assert.True(t, block.AppliesTo(nil, day(2026, time.January, 8), day(2026, time.January, 10)), "touches window start")
	assert.True(t, block.AppliesTo(nil, day(2026, time.January, 15), day(2026, time.January, 20)), "touches window end")
	assert.False(t, block.AppliesTo(nil, day(2026, time.January, 16), day(2026, time.January, 20)))
	assert.False(t, block.AppliesTo(nil, day(2026, time.January, 5), day(2026, time.January, 9)))
}
