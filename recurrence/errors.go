package recurrence

import (
	"errors"
	"fmt"
)

// Error types
type ErrorType string

const (
	ErrInvalidTimeZone ErrorType = "invalid_time_zone"
	ErrInvalidOption   ErrorType = "invalid_option"
	ErrInvalidWeekday  ErrorType = "invalid_weekday"
	ErrOutOfRange      ErrorType = "out_of_range"
	ErrUnknownKind     ErrorType = "unknown_kind"
	ErrUnsupportedRule ErrorType = "unsupported_rule"
)

// Error represents a rejected rule or option. Expansion itself never fails;
// every Error is raised while a rule is being built.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

func newError(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

func wrapError(t ErrorType, err error, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}
