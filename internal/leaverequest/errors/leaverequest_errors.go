package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	RequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)

	NotOwner = apperror.New(
		apperror.CodeForbidden,
		"leave request belongs to another employee",
		http.StatusForbidden,
	)

	NotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only requests in requested state can be modified",
		http.StatusConflict,
	)

	NotApprovable = apperror.New(
		apperror.CodeInvalidState,
		"request is not awaiting approval",
		http.StatusConflict,
	)

	NotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"only approved requests with a future start date can be cancelled",
		http.StatusConflict,
	)

	PastStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"start date is in the past",
		http.StatusBadRequest,
	)

	OverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"an active leave request already covers part of this period",
		http.StatusConflict,
	)

	EmptyRequest = apperror.New(
		apperror.CodeInvalidInput,
		"the requested period contains no chargeable days",
		http.StatusBadRequest,
	)
)
