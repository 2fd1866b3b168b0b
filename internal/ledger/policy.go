package ledger

import (
	"time"

	"go-leave/internal/leavetype"
)

// NextResetDate returns the first occurrence of lt's reset policy strictly
// after the given date, or nil when the type does not reset.
func NextResetDate(lt *leavetype.LeaveType, after time.Time) *time.Time {
	if !lt.Reset {
		return nil
	}
	after = midnight(after)

	var next time.Time
	switch lt.ResetBased {
	case leavetype.ResetYearly:
		next = yearlyOccurrence(after.Year(), lt.ResetMonth, lt.ResetDay)
		if !next.After(after) {
			next = yearlyOccurrence(after.Year()+1, lt.ResetMonth, lt.ResetDay)
		}
	case leavetype.ResetMonthly:
		next = monthlyOccurrence(after.Year(), after.Month(), lt.ResetDay)
		if !next.After(after) {
			next = monthlyOccurrence(after.Year(), after.Month()+1, lt.ResetDay)
		}
	case leavetype.ResetWeekly:
		days := (time.Weekday(lt.ResetWeekday) - after.Weekday() + 7) % 7
		if days == 0 {
			days = 7
		}
		next = after.AddDate(0, 0, int(days))
	default:
		return nil
	}
	return &next
}

// NextExpiryDate returns when carryforward granted at from expires, or nil
// when the type's carryforward never expires.
func NextExpiryDate(lt *leavetype.LeaveType, from time.Time) *time.Time {
	if lt.CarryforwardType != leavetype.CarryforwardWithExpiry || lt.CarryforwardExpireIn <= 0 {
		return nil
	}
	from = midnight(from)

	var exp time.Time
	switch lt.CarryforwardExpireUnit {
	case leavetype.PeriodDay:
		exp = from.AddDate(0, 0, lt.CarryforwardExpireIn)
	case leavetype.PeriodYear:
		exp = from.AddDate(lt.CarryforwardExpireIn, 0, 0)
	default:
		exp = from.AddDate(0, lt.CarryforwardExpireIn, 0)
	}
	return &exp
}

func yearlyOccurrence(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), resolveDay(year, time.Month(month), day), 0, 0, 0, 0, time.UTC)
}

func monthlyOccurrence(year int, month time.Month, day int) time.Time {
	// Normalize month overflow before resolving the day against its length.
	base := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return time.Date(base.Year(), base.Month(), resolveDay(base.Year(), base.Month(), day), 0, 0, 0, 0, time.UTC)
}

// resolveDay maps the configured day-of-month onto a real day: the last-day
// sentinel and days past the month's length both land on the final day.
func resolveDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day == leavetype.ResetDayLast || day > last {
		return last
	}
	return day
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
