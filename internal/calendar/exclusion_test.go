package calendar_test

import (
	"testing"
	"time"

	"go-leave/internal/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildYearIndex_HolidayRange(t *testing.T) {
	holidays := []calendar.Holiday{
		{
			ID:        uuid.New(),
			Name:      "Spring break",
			StartDate: date(2026, time.April, 1),
			EndDate:   date(2026, time.April, 3),
		},
	}

	idx := calendar.BuildYearIndex(2026, holidays, nil)

	assert.Len(t, idx.HolidayDates, 3)
	assert.True(t, idx.Excluded(date(2026, time.April, 2), true, false))
	assert.False(t, idx.Excluded(date(2026, time.April, 4), true, false))
	// Holiday flag off means the date does not count.
	assert.False(t, idx.Excluded(date(2026, time.April, 2), false, true))
}

func TestBuildYearIndex_RecurringHolidayReinterpreted(t *testing.T) {
	holidays := []calendar.Holiday{
		{
			ID:        uuid.New(),
			Name:      "Founders day",
			StartDate: date(2020, time.May, 17),
			EndDate:   date(2020, time.May, 17),
			Recurring: true,
		},
	}

	idx := calendar.BuildYearIndex(2026, holidays, nil)

	assert.True(t, idx.Excluded(date(2026, time.May, 17), true, false))
}

func TestBuildYearIndex_NonRecurringOtherYearIgnored(t *testing.T) {
	holidays := []calendar.Holiday{
		{
			ID:        uuid.New(),
			StartDate: date(2025, time.December, 31),
			EndDate:   date(2026, time.January, 2),
		},
	}

	idx := calendar.BuildYearIndex(2026, holidays, nil)

	// Only the days falling inside 2026 belong to the 2026 index.
	assert.Len(t, idx.HolidayDates, 2)
	assert.True(t, idx.Excluded(date(2026, time.January, 1), true, false))
}

func TestBuildYearIndex_CompanyLeaveNthWeekday(t *testing.T) {
	week := 1
	companyLeaves := []calendar.CompanyLeave{
		{
			ID:             uuid.New(),
			BasedOnWeek:    &week,
			BasedOnWeekday: int(time.Monday),
		},
	}

	idx := calendar.BuildYearIndex(2026, nil, companyLeaves)

	// One first-Monday per month.
	assert.Len(t, idx.CompanyDates, 12)
	// First Monday of June 2026 is the 1st.
	assert.True(t, idx.Excluded(date(2026, time.June, 1), false, true))
	assert.False(t, idx.Excluded(date(2026, time.June, 8), false, true))
}

func TestBuildYearIndex_CompanyLeaveEveryOccurrence(t *testing.T) {
	companyLeaves := []calendar.CompanyLeave{
		{
			ID:             uuid.New(),
			BasedOnWeekday: int(time.Sunday),
		},
	}

	idx := calendar.BuildYearIndex(2026, nil, companyLeaves)

	// 2026 has 52 Sundays.
	assert.Len(t, idx.CompanyDates, 52)
	assert.True(t, idx.Excluded(date(2026, time.March, 8), false, true))
}

func TestExcluded_OverlapCountedOnce(t *testing.T) {
	week := 2
	holidays := []calendar.Holiday{
		{
			ID: uuid.New(),
			// 2026-06-08 is the second Monday of June.
			StartDate: date(2026, time.June, 8),
			EndDate:   date(2026, time.June, 8),
		},
	}
	companyLeaves := []calendar.CompanyLeave{
		{
			ID:             uuid.New(),
			BasedOnWeek:    &week,
			BasedOnWeekday: int(time.Monday),
		},
	}

	idx := calendar.BuildYearIndex(2026, holidays, companyLeaves)

	// The date is in both sets; Excluded is a plain predicate so the union
	// can never subtract twice.
	assert.True(t, idx.Excluded(date(2026, time.June, 8), true, true))
	assert.True(t, idx.Excluded(date(2026, time.June, 8), true, false))
	assert.True(t, idx.Excluded(date(2026, time.June, 8), false, true))
}
