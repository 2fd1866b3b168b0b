package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ConditionNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval condition not found",
		http.StatusNotFound,
	)

	InvalidCondition = apperror.New(
		apperror.CodeInvalidInput,
		"approval condition operator and values are inconsistent",
		http.StatusBadRequest,
	)

	NoManagers = apperror.New(
		apperror.CodeInvalidInput,
		"approval condition needs at least one manager",
		http.StatusBadRequest,
	)

	NotYourStep = apperror.New(
		apperror.CodeForbidden,
		"no pending approval step for this manager",
		http.StatusForbidden,
	)
)
