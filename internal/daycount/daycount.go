package daycount

import (
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

// Half is the breakdown marker for one end of a leave range.
type Half string

const (
	Full       Half = "full_day"
	FirstHalf  Half = "first_half"
	SecondHalf Half = "second_half"
)

var ErrEndBeforeStart = apperror.New(
	apperror.CodeInvalidInput,
	"end_date must be on or after start_date",
	http.StatusBadRequest,
)

var ErrInvalidBreakdown = apperror.New(
	apperror.CodeInvalidInput,
	"invalid half-day breakdown",
	http.StatusBadRequest,
)

var half = decimal.NewFromFloat(0.5)

func ValidHalf(h Half) bool {
	switch h {
	case Full, FirstHalf, SecondHalf:
		return true
	}
	return false
}

// Count converts a date range with half-day markers into a day count in
// multiples of 0.5.
//
// A single-day request counts 1.0 only when both markers are full; any half
// marking makes it 0.5, because the one calendar day is itself the half day.
// A multi-day request counts the inclusive calendar days and drops 0.5 for
// each end that is not full.
func Count(start, end time.Time, startHalf, endHalf Half) (decimal.Decimal, error) {
	if !ValidHalf(startHalf) || !ValidHalf(endHalf) {
		return decimal.Zero, ErrInvalidBreakdown
	}

	start = truncate(start)
	end = truncate(end)

	if end.Before(start) {
		return decimal.Zero, ErrEndBeforeStart
	}

	if start.Equal(end) {
		if startHalf == Full && endHalf == Full {
			return decimal.NewFromInt(1), nil
		}
		return half, nil
	}

	days := int64(end.Sub(start).Hours()/24) + 1
	count := decimal.NewFromInt(days)
	if startHalf != Full {
		count = count.Sub(half)
	}
	if endHalf != Full {
		count = count.Sub(half)
	}
	return count, nil
}

// Dates lists every calendar day in the inclusive range.
func Dates(start, end time.Time) []time.Time {
	start = truncate(start)
	end = truncate(end)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
