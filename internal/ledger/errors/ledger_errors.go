package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	AssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave assignment not found",
		http.StatusNotFound,
	)

	AlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"employee already has this leave type assigned",
		http.StatusConflict,
	)

	InsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)

	ConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"balance was modified concurrently, retry the operation",
		http.StatusConflict,
	)

	InvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a non-negative number of days",
		http.StatusBadRequest,
	)
)
