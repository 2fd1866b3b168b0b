package leavetype_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leavetype"
	lterrors "go-leave/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	createFn                    func(ctx context.Context, lt *leavetype.LeaveType) error
	findByIDFn                  func(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
	findAllByCompanyFn          func(ctx context.Context, companyID string) ([]leavetype.LeaveType, error)
	findCompensatoryByCompanyFn func(ctx context.Context, companyID string) (*leavetype.LeaveType, error)
	findAssignOnJoinFn          func(ctx context.Context, companyID string) ([]leavetype.LeaveType, error)
	updateFn                    func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn                    func(ctx context.Context, companyID, id string) error
}

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindCompensatoryByCompany(ctx context.Context, companyID string) (*leavetype.LeaveType, error) {
	if f.findCompensatoryByCompanyFn != nil {
		return f.findCompensatoryByCompanyFn(ctx, companyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) FindAssignOnJoinByCompany(ctx context.Context, companyID string) ([]leavetype.LeaveType, error) {
	if f.findAssignOnJoinFn != nil {
		return f.findAssignOnJoinFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func baseCreateRequest() leavetype.CreateLeaveTypeRequest {
	return leavetype.CreateLeaveTypeRequest{
		Name:      "Annual Leave",
		Count:     "1",
		PeriodIn:  leavetype.PeriodYear,
		TotalDays: "12",
	}
}

func TestCreate_Basic(t *testing.T) {
	companyID := uuid.New().String()
	repo := &fakeLeaveTypeRepository{}
	svc := leavetype.NewService(repo, nil)

	resp, err := svc.Create(context.Background(), companyID, baseCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "Annual Leave", resp.Name)
	assert.Equal(t, "12", resp.TotalDays)
	assert.True(t, resp.RequireApproval)
	assert.Equal(t, leavetype.CarryforwardNone, resp.CarryforwardType)
}

func TestCreate_SecondCompensatoryRejected(t *testing.T) {
	companyID := uuid.New().String()
	existing := &leavetype.LeaveType{ID: uuid.New(), IsCompensatory: true}
	repo := &fakeLeaveTypeRepository{
		findCompensatoryByCompanyFn: func(ctx context.Context, cid string) (*leavetype.LeaveType, error) {
			return existing, nil
		},
	}
	svc := leavetype.NewService(repo, nil)

	req := baseCreateRequest()
	req.IsCompensatory = true
	_, err := svc.Create(context.Background(), companyID, req)

	assert.ErrorIs(t, err, lterrors.CompensatoryTypeExists)
}

func TestCreate_FirstCompensatoryAllowed(t *testing.T) {
	companyID := uuid.New().String()
	repo := &fakeLeaveTypeRepository{}
	svc := leavetype.NewService(repo, nil)

	req := baseCreateRequest()
	req.IsCompensatory = true
	resp, err := svc.Create(context.Background(), companyID, req)

	assert.NoError(t, err)
	assert.True(t, resp.IsCompensatory)
}

func TestCreate_ResetPolicyValidation(t *testing.T) {
	companyID := uuid.New().String()
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	t.Run("reset without basis rejected", func(t *testing.T) {
		req := baseCreateRequest()
		req.Reset = true
		_, err := svc.Create(context.Background(), companyID, req)
		assert.ErrorIs(t, err, lterrors.InvalidResetPolicy)
	})

	t.Run("yearly with month and day accepted", func(t *testing.T) {
		req := baseCreateRequest()
		req.Reset = true
		req.ResetBased = leavetype.ResetYearly
		req.ResetMonth = 1
		req.ResetDay = 1
		resp, err := svc.Create(context.Background(), companyID, req)
		assert.NoError(t, err)
		assert.Equal(t, 1, resp.ResetMonth)
	})

	t.Run("monthly last day sentinel accepted", func(t *testing.T) {
		req := baseCreateRequest()
		req.Reset = true
		req.ResetBased = leavetype.ResetMonthly
		req.ResetDay = leavetype.ResetDayLast
		resp, err := svc.Create(context.Background(), companyID, req)
		assert.NoError(t, err)
		assert.Equal(t, leavetype.ResetDayLast, resp.ResetDay)
	})

	t.Run("monthly without day rejected", func(t *testing.T) {
		req := baseCreateRequest()
		req.Reset = true
		req.ResetBased = leavetype.ResetMonthly
		_, err := svc.Create(context.Background(), companyID, req)
		assert.ErrorIs(t, err, lterrors.InvalidResetPolicy)
	})

	t.Run("weekly needs no day", func(t *testing.T) {
		req := baseCreateRequest()
		req.Reset = true
		req.ResetBased = leavetype.ResetWeekly
		req.ResetWeekday = 1
		_, err := svc.Create(context.Background(), companyID, req)
		assert.NoError(t, err)
	})
}

func TestCreate_CarryforwardValidation(t *testing.T) {
	companyID := uuid.New().String()
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	t.Run("expire without offset rejected", func(t *testing.T) {
		req := baseCreateRequest()
		req.CarryforwardType = leavetype.CarryforwardWithExpiry
		_, err := svc.Create(context.Background(), companyID, req)
		assert.ErrorIs(t, err, lterrors.InvalidCarryforward)
	})

	t.Run("expire with offset accepted", func(t *testing.T) {
		req := baseCreateRequest()
		req.CarryforwardType = leavetype.CarryforwardWithExpiry
		req.CarryforwardExpireIn = 3
		resp, err := svc.Create(context.Background(), companyID, req)
		assert.NoError(t, err)
		assert.Equal(t, 3, resp.CarryforwardExpireIn)
		assert.Equal(t, leavetype.PeriodMonth, resp.CarryforwardExpireUnit)
	})

	t.Run("negative max rejected", func(t *testing.T) {
		req := baseCreateRequest()
		req.CarryforwardType = leavetype.CarryforwardKeep
		negative := "-1"
		req.CarryforwardMax = &negative
		_, err := svc.Create(context.Background(), companyID, req)
		assert.ErrorIs(t, err, lterrors.InvalidCarryforward)
	})
}

func TestUpdate_KeepingCompensatoryFlagAllowed(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New()
	existing := &leavetype.LeaveType{
		ID:             id,
		CompanyID:      uuid.MustParse(companyID),
		Name:           "Comp Off",
		IsCompensatory: true,
	}
	repo := &fakeLeaveTypeRepository{
		findByIDFn: func(ctx context.Context, cid, ltid string) (*leavetype.LeaveType, error) {
			return existing, nil
		},
		findCompensatoryByCompanyFn: func(ctx context.Context, cid string) (*leavetype.LeaveType, error) {
			return existing, nil
		},
	}
	svc := leavetype.NewService(repo, nil)

	req := leavetype.UpdateLeaveTypeRequest{
		Name:           "Comp Off Renamed",
		Count:          "1",
		PeriodIn:       leavetype.PeriodYear,
		TotalDays:      "0",
		IsCompensatory: true,
	}
	resp, err := svc.Update(context.Background(), companyID, id.String(), req)

	assert.NoError(t, err)
	assert.Equal(t, "Comp Off Renamed", resp.Name)
	assert.True(t, resp.IsCompensatory)
}

func TestDelete_ForeignKeyViolationMapsToInUse(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New()
	repo := &fakeLeaveTypeRepository{
		findByIDFn: func(ctx context.Context, cid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, cid, ltid string) error {
			return &pgconn.PgError{Code: "23503"}
		},
	}
	svc := leavetype.NewService(repo, nil)

	err := svc.Delete(context.Background(), companyID, id.String())

	assert.ErrorIs(t, err, lterrors.LeaveTypeInUse)
}

func TestDelete_NotFound(t *testing.T) {
	svc := leavetype.NewService(&fakeLeaveTypeRepository{}, nil)

	err := svc.Delete(context.Background(), uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, lterrors.LeaveTypeNotFound)
}

func TestDelete_UnknownErrorPassedThrough(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New()
	boom := errors.New("connection reset")
	repo := &fakeLeaveTypeRepository{
		findByIDFn: func(ctx context.Context, cid, ltid string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, cid, ltid string) error {
			return boom
		},
	}
	svc := leavetype.NewService(repo, nil)

	err := svc.Delete(context.Background(), companyID, id.String())

	assert.ErrorIs(t, err, boom)
}
