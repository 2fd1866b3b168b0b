package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	RestrictionNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave restriction not found",
		http.StatusNotFound,
	)

	LeaveRestricted = apperror.New(
		apperror.CodeInvalidState,
		"leave is restricted for this department in the requested period",
		http.StatusUnprocessableEntity,
	)
)
