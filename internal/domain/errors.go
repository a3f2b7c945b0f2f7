package domain

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Error codes for the failure categories the console distinguishes.
const (
	CodeNotFound         = 1 // remote record or collection page does not exist
	CodeValidation       = 2 // local, field-scoped validation failure
	CodeRemoteValidation = 3 // remote 4xx with a field-keyed error body
	CodeRemoteFault      = 4 // remote 5xx
	CodeTransport        = 5 // network failure, timeout, connection reset
	CodeInternal         = 6 // anything wrong on our side
)

// AppError represents a failure with a code, a human-readable message, an
// optional wrapped error, and — for remote validation failures — the
// field-keyed messages parsed from the backend's error body.
type AppError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"-"` // remote HTTP status, 0 when not applicable
	Fields  map[string][]string `json:"-"`
	Err     error               `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// FlattenFields joins all field-keyed messages into a single string, in
// stable field order. Returns the plain message when no fields are present.
func (e *AppError) FlattenFields() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, " ")
}

// Predefined errors.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsTransport, ...) instead of
// errors.Is. The helpers compare error codes via errors.As, so they match any
// *AppError carrying the same code, including wrapped ones.
var (
	ErrNotFound   = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal   = &AppError{Code: CodeInternal, Message: "internal error"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsRemoteValidation reports whether err is or wraps an AppError with CodeRemoteValidation.
func IsRemoteValidation(err error) bool {
	return hasCode(err, CodeRemoteValidation)
}

// IsRemoteFault reports whether err is or wraps an AppError with CodeRemoteFault.
func IsRemoteFault(err error) bool {
	return hasCode(err, CodeRemoteFault)
}

// IsTransport reports whether err is or wraps an AppError with CodeTransport.
func IsTransport(err error) bool {
	return hasCode(err, CodeTransport)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// hasCode checks whether err is or wraps an *AppError with the given code.
func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to the HTTP status code the console itself
// responds with. Remote faults and transport failures surface as gateway
// errors because the console fronts the catalog backend.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeValidation, CodeRemoteValidation:
			return http.StatusBadRequest
		case CodeRemoteFault:
			return http.StatusBadGateway
		case CodeTransport:
			return http.StatusGatewayTimeout
		case CodeInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
