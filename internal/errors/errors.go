package errorz

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, client-visible error identifier. The set is closed:
// handlers map every failure onto one of these before it leaves the API.
type Code string

const (
	CodeInvalidAPIKey        Code = "INVALID_API_KEY"
	CodeInvalidTraceEncoding Code = "INVALID_TRACE_ENCODING"
	CodeValidationError      Code = "VALIDATION_ERROR"
	CodeNotFound             Code = "NOT_FOUND"
	CodeDatabaseError        Code = "DATABASE_ERROR"
	CodeInternalError        Code = "INTERNAL_ERROR"
)

var ErrConfigNotFound = errors.New("config not found")
var ErrServerError = errors.New("server error")

// AppError carries an HTTP status and a stable code. The wrapped cause is
// for logs only and is never rendered to the client.
type AppError struct {
	Status  int
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func InvalidAPIKey() *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeInvalidAPIKey, Message: "unknown api key"}
}

func InvalidTraceEncoding(err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeInvalidTraceEncoding, Message: "malformed trace payload", Err: err}
}

func Validation(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidationError, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Storage wraps any persistence failure. The client only ever sees the
// generic message; the cause stays in the wrapped error for logging.
func Storage(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeDatabaseError, Message: "database error", Err: err}
}

// As unwraps err into an *AppError when possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
