package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates invalid request format.
	CodeInvalidFormat
	// CodeInvalidInput indicates invalid request input.
	CodeInvalidInput
	// CodeNotFound indicates a missing resource.
	CodeNotFound
	// CodeConflict indicates a conflict (e.g., duplicate).
	CodeConflict
	// CodeUnauthorized indicates authentication failure.
	CodeUnauthorized
	// CodeForbidden indicates authorization failure.
	CodeForbidden
	// CodeGone indicates a resource that existed but is no longer usable.
	CodeGone
	// CodeUnprocessable indicates well-formed input that the domain rejects.
	CodeUnprocessable
	// CodeUnavailable indicates a downstream collaborator failed.
	CodeUnavailable
)

var codeNames = map[Code]string{
	CodeInvalidFormat: "ERROR_CODE_INVALID_FORMAT",
	CodeInvalidInput:  "ERROR_CODE_INVALID_INPUT",
	CodeNotFound:      "ERROR_CODE_NOT_FOUND",
	CodeConflict:      "ERROR_CODE_CONFLICT",
	CodeUnauthorized:  "ERROR_CODE_UNAUTHORIZED",
	CodeForbidden:     "ERROR_CODE_FORBIDDEN",
	CodeGone:          "ERROR_CODE_GONE",
	CodeUnprocessable: "ERROR_CODE_UNPROCESSABLE",
	CodeUnavailable:   "ERROR_CODE_UNAVAILABLE",
}

var codeStatuses = map[Code]int{
	CodeInvalidFormat: http.StatusBadRequest,
	CodeInvalidInput:  http.StatusUnprocessableEntity,
	CodeNotFound:      http.StatusNotFound,
	CodeConflict:      http.StatusConflict,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
	CodeGone:          http.StatusGone,
	CodeUnprocessable: http.StatusUnprocessableEntity,
	CodeUnavailable:   http.StatusServiceUnavailable,
}

// String returns the string representation of the error code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "ERROR_CODE_INTERNAL"
}

// Error is a structured error used across the application.
//
// It carries a user-facing message, a high-level type, a stable code and
// optionally the underlying cause. Two errors with the same type, code and
// message match under errors.Is, so a sentinel keeps matching after a cause
// has been attached with Wrap.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	default:
		return "Internal error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string { return e.msg }

// Type returns the high-level error type.
func (e *Error) Type() Type { return e.errType }

// Code returns the stable error code.
func (e *Error) Code() Code { return e.code }

// Fields returns validation errors (field to message map), if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target describes the same failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.errType == t.errType && e.code == t.code && e.msg == t.msg
}

// Wrap returns a copy of e carrying cause as the underlying error.
func (e *Error) Wrap(cause error) error {
	cp := *e
	cp.err = cause
	return &cp
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	if st, ok := codeStatuses[e.code]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func newError(err error, msg string, et Type, code Code) *Error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the specified message and code.
//
// The concrete *Error is returned so packages can declare sentinels and
// later attach a cause with Wrap.
func NewBusiness(msg string, code Code) *Error {
	return newError(nil, msg, TypeBusiness, code)
}

// NewUnavailable creates a server-type error for a failing downstream collaborator.
func NewUnavailable(msg string) *Error {
	return newError(nil, msg, TypeServer, CodeUnavailable)
}

// NewInvalidInput creates a validation error from a validator error, or from
// explicit field/message pairs when err is nil.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return newError(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	out := newError(nil, "Validation error", TypeValidation, CodeInvalidInput)
	out.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out.fields[kv[i]] = kv[i+1]
	}

	return out
}

// NewValidation creates a validation error with its own message, so it stays
// distinguishable from generic validator failures under errors.Is.
func NewValidation(msg string, kv ...string) *Error {
	out := newError(nil, msg, TypeValidation, CodeInvalidInput)
	if len(kv) >= 2 {
		out.fields = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			out.fields[kv[i]] = kv[i+1]
		}
	}
	return out
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return newError(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}
