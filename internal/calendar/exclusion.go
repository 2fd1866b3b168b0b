package calendar

import (
	"time"
)

const dateKeyLayout = "2006-01-02"

// YearIndex holds the concrete excluded dates of one calendar year, split by
// origin so a leave type's two exclusion flags can be applied independently.
type YearIndex struct {
	Year         int                 `json:"year"`
	HolidayDates map[string]struct{} `json:"holiday_dates"`
	CompanyDates map[string]struct{} `json:"company_dates"`
}

// Excluded reports whether the date is excluded under the given flags. A date
// present in both sets is excluded once, never twice.
func (idx *YearIndex) Excluded(d time.Time, excludeHoliday, excludeCompany bool) bool {
	key := d.Format(dateKeyLayout)
	if excludeHoliday {
		if _, ok := idx.HolidayDates[key]; ok {
			return true
		}
	}
	if excludeCompany {
		if _, ok := idx.CompanyDates[key]; ok {
			return true
		}
	}
	return false
}

// BuildYearIndex expands holiday and company-leave rows into the concrete
// excluded dates of one calendar year.
func BuildYearIndex(year int, holidays []Holiday, companyLeaves []CompanyLeave) *YearIndex {
	idx := &YearIndex{
		Year:         year,
		HolidayDates: make(map[string]struct{}),
		CompanyDates: make(map[string]struct{}),
	}

	for _, h := range holidays {
		for _, d := range expandHoliday(h, year) {
			idx.HolidayDates[d.Format(dateKeyLayout)] = struct{}{}
		}
	}

	for _, cl := range companyLeaves {
		for month := time.January; month <= time.December; month++ {
			for _, d := range occurrencesInMonth(year, month, time.Weekday(cl.BasedOnWeekday), cl.BasedOnWeek) {
				idx.CompanyDates[d.Format(dateKeyLayout)] = struct{}{}
			}
		}
	}

	return idx
}

// expandHoliday lists the holiday's dates falling in the given year. A
// recurring holiday keeps its month/day span but is reinterpreted into the
// requested year.
func expandHoliday(h Holiday, year int) []time.Time {
	start := dateOnly(h.StartDate)
	end := dateOnly(h.EndDate)

	if h.Recurring {
		shift := year - start.Year()
		start = start.AddDate(shift, 0, 0)
		end = end.AddDate(shift, 0, 0)
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Year() == year {
			dates = append(dates, d)
		}
	}
	return dates
}

// occurrencesInMonth lists the dates of a weekday in one month: the Nth
// occurrence when week is set (nil when the rule covers every occurrence).
// A month with no Nth occurrence contributes nothing.
func occurrencesInMonth(year int, month time.Month, weekday time.Weekday, week *int) []time.Time {
	var all []time.Time

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			all = append(all, d)
		}
	}

	if week == nil {
		return all
	}
	n := *week
	if n < 1 || n > len(all) {
		return nil
	}
	return all[n-1 : n]
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
