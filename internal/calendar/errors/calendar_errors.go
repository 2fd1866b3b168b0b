package calendarerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidWeek = apperror.New(
		apperror.CodeInvalidInput,
		"based_on_week must be between 1 and 5",
		http.StatusBadRequest,
	)
	ErrInvalidWeekday = apperror.New(
		apperror.CodeInvalidInput,
		"based_on_weekday must be between 0 (Sunday) and 6 (Saturday)",
		http.StatusBadRequest,
	)
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"holiday not found",
		http.StatusNotFound,
	)
	ErrCompanyLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"company leave not found",
		http.StatusNotFound,
	)
)
