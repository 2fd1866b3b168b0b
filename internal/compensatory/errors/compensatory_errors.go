package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	CompensatoryNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensatory leave request not found",
		http.StatusNotFound,
	)

	NotOwner = apperror.New(
		apperror.CodeForbidden,
		"compensatory request belongs to another employee",
		http.StatusForbidden,
	)

	NotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only compensatory requests in requested state can be modified",
		http.StatusConflict,
	)

	NotApprovable = apperror.New(
		apperror.CodeInvalidState,
		"compensatory request is not awaiting approval",
		http.StatusConflict,
	)

	NoCompensatoryType = apperror.New(
		apperror.CodeInvalidState,
		"no compensatory leave type is configured for this company",
		http.StatusUnprocessableEntity,
	)

	AttendanceNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"one or more attendance records were not found for this employee",
		http.StatusBadRequest,
	)

	AttendanceNotExcluded = apperror.New(
		apperror.CodeInvalidInput,
		"attendance must fall on a holiday or company-wide leave day",
		http.StatusBadRequest,
	)

	NoCreditableHours = apperror.New(
		apperror.CodeInvalidInput,
		"worked hours on the claimed days earn no leave credit",
		http.StatusBadRequest,
	)
)
