package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	LeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)

	CompensatoryTypeExists = apperror.New(
		apperror.CodeConflict,
		"a compensatory leave type already exists for this company",
		http.StatusConflict,
	)

	LeaveTypeInUse = apperror.New(
		apperror.CodeConflict,
		"leave type is referenced by assignments or requests",
		http.StatusConflict,
	)

	InvalidResetPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"reset policy is incomplete or inconsistent",
		http.StatusBadRequest,
	)

	InvalidCarryforward = apperror.New(
		apperror.CodeInvalidInput,
		"carryforward configuration is invalid",
		http.StatusBadRequest,
	)
)
