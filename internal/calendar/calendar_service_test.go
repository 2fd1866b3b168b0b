package calendar_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/calendar"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeCalendarRepository struct {
	createHolidayFn              func(ctx context.Context, h *calendar.Holiday) error
	findHolidaysByCompanyFn      func(ctx context.Context, companyID string) ([]calendar.Holiday, error)
	findHolidayByIDFn            func(ctx context.Context, companyID, id string) (*calendar.Holiday, error)
	updateHolidayFn              func(ctx context.Context, h *calendar.Holiday) error
	deleteHolidayFn              func(ctx context.Context, companyID, id string) error
	createCompanyLeaveFn         func(ctx context.Context, cl *calendar.CompanyLeave) error
	findCompanyLeavesByCompanyFn func(ctx context.Context, companyID string) ([]calendar.CompanyLeave, error)
	findCompanyLeaveByIDFn       func(ctx context.Context, companyID, id string) (*calendar.CompanyLeave, error)
	deleteCompanyLeaveFn         func(ctx context.Context, companyID, id string) error
}

func (f *fakeCalendarRepository) CreateHoliday(ctx context.Context, h *calendar.Holiday) error {
	if f.createHolidayFn != nil {
		return f.createHolidayFn(ctx, h)
	}
	return nil
}

func (f *fakeCalendarRepository) FindHolidaysByCompany(ctx context.Context, companyID string) ([]calendar.Holiday, error) {
	if f.findHolidaysByCompanyFn != nil {
		return f.findHolidaysByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) FindHolidayByIDAndCompany(ctx context.Context, companyID, id string) (*calendar.Holiday, error) {
	if f.findHolidayByIDFn != nil {
		return f.findHolidayByIDFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) UpdateHoliday(ctx context.Context, h *calendar.Holiday) error {
	if f.updateHolidayFn != nil {
		return f.updateHolidayFn(ctx, h)
	}
	return nil
}

func (f *fakeCalendarRepository) DeleteHoliday(ctx context.Context, companyID, id string) error {
	if f.deleteHolidayFn != nil {
		return f.deleteHolidayFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeCalendarRepository) CreateCompanyLeave(ctx context.Context, cl *calendar.CompanyLeave) error {
	if f.createCompanyLeaveFn != nil {
		return f.createCompanyLeaveFn(ctx, cl)
	}
	return nil
}

func (f *fakeCalendarRepository) FindCompanyLeavesByCompany(ctx context.Context, companyID string) ([]calendar.CompanyLeave, error) {
	if f.findCompanyLeavesByCompanyFn != nil {
		return f.findCompanyLeavesByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) FindCompanyLeaveByIDAndCompany(ctx context.Context, companyID, id string) (*calendar.CompanyLeave, error) {
	if f.findCompanyLeaveByIDFn != nil {
		return f.findCompanyLeaveByIDFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) DeleteCompanyLeave(ctx context.Context, companyID, id string) error {
	if f.deleteCompanyLeaveFn != nil {
		return f.deleteCompanyLeaveFn(ctx, companyID, id)
	}
	return nil
}

func TestExcludedCount(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	repo := &fakeCalendarRepository{
		findHolidaysByCompanyFn: func(ctx context.Context, cid string) ([]calendar.Holiday, error) {
			assert.Equal(t, companyID, cid)
			return []calendar.Holiday{
				{
					ID:        uuid.New(),
					StartDate: date(2026, time.July, 14),
					EndDate:   date(2026, time.July, 14),
				},
			}, nil
		},
		findCompanyLeavesByCompanyFn: func(ctx context.Context, cid string) ([]calendar.CompanyLeave, error) {
			return []calendar.CompanyLeave{
				{ID: uuid.New(), BasedOnWeekday: int(time.Sunday)},
			}, nil
		},
	}

	svc := calendar.NewService(repo, nil)

	t.Run("both flags subtract union once", func(t *testing.T) {
		// 2026-07-12 is a Sunday, 2026-07-14 the holiday.
		count, err := svc.ExcludedCount(ctx, companyID, date(2026, time.July, 12), date(2026, time.July, 18), true, true)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("holiday flag only", func(t *testing.T) {
		count, err := svc.ExcludedCount(ctx, companyID, date(2026, time.July, 12), date(2026, time.July, 18), true, false)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("company flag only", func(t *testing.T) {
		count, err := svc.ExcludedCount(ctx, companyID, date(2026, time.July, 12), date(2026, time.July, 18), false, true)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("no flags", func(t *testing.T) {
		count, err := svc.ExcludedCount(ctx, companyID, date(2026, time.July, 12), date(2026, time.July, 18), false, false)
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestYearIndexFor_CacheHit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	cached := calendar.BuildYearIndex(2026, []calendar.Holiday{
		{
			ID:        uuid.New(),
			StartDate: date(2026, time.January, 1),
			EndDate:   date(2026, time.January, 1),
		},
	}, nil)
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("calendar:year:" + companyID + ":2026").SetVal(string(payload))

	repo := &fakeCalendarRepository{
		findHolidaysByCompanyFn: func(ctx context.Context, cid string) ([]calendar.Holiday, error) {
			t.Fatal("repository must not be hit on cache hit")
			return nil, nil
		},
	}

	svc := calendar.NewService(repo, rdb)

	idx, err := svc.YearIndexFor(ctx, companyID, 2026)
	assert.NoError(t, err)
	assert.True(t, idx.Excluded(date(2026, time.January, 1), true, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
