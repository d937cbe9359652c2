package lib

import "errors"

// Code classifies engine errors so callers can react without string matching.
type Code int

const (
	CodeInternal Code = iota
	CodeNotFound
	CodeInvalidArgument
	CodeUnavailable
)

// Error is the result form every store- and transport-level failure is
// converted into before it reaches the synchronization engine.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// CodeOf extracts the code from an error, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// NotFoundError returns a NotFound error.
func NotFoundError(message string) error {
	if message == "" {
		message = "The requested resource was not found."
	}
	return &Error{Code: CodeNotFound, Message: message}
}

// InternalError returns an Internal error.
func InternalError() error {
	return &Error{Code: CodeInternal, Message: "An unexpected internal error occurred."}
}

// InvalidArgumentError returns an InvalidArgument error.
func InvalidArgumentError(message string) error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// UnavailableError returns an Unavailable error for transient backend failures.
func UnavailableError(message string) error {
	if message == "" {
		message = "The backend is temporarily unavailable."
	}
	return &Error{Code: CodeUnavailable, Message: message}
}
