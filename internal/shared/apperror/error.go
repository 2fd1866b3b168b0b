package apperror

import "fmt"

// AppError carries a machine-readable code and the HTTP status the handler
// layer should answer with. Services return it directly; ToHTTP maps anything
// else to a generic 500.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap attaches code and status to an underlying error. Returns nil for a nil
// err so call sites can wrap unconditionally.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
