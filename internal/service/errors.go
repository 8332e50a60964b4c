package service

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindForbidden
	KindState
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindState:
		return "state"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Error is returned by the post workflow, notification and media cleanup
// services. Message is safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Message: err.Error(), Err: err}
}

func forbiddenError(op, message string) error {
	return &Error{Kind: KindForbidden, Op: op, Message: message}
}

func stateError(op, format string, args ...any) error {
	return &Error{Kind: KindState, Op: op, Message: fmt.Sprintf(format, args...)}
}

func unavailableError(op string, err error) error {
	return &Error{Kind: KindUnavailable, Op: op, Message: "storage is unavailable", Err: err}
}

// KindOf reports the kind of err, or zero when err is not a service error.
func KindOf(err error) ErrorKind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return 0
}

// Message returns the caller-facing text of err.
func Message(err error) string {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Message
	}
	return "internal error"
}
