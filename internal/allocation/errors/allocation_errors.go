package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	AllocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave allocation request not found",
		http.StatusNotFound,
	)

	NotOwner = apperror.New(
		apperror.CodeForbidden,
		"allocation request belongs to another employee",
		http.StatusForbidden,
	)

	NotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only allocation requests in requested state can be modified",
		http.StatusConflict,
	)

	NotApprovable = apperror.New(
		apperror.CodeInvalidState,
		"allocation request is not awaiting approval",
		http.StatusConflict,
	)

	InvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested_days must be a positive number of days",
		http.StatusBadRequest,
	)
)
