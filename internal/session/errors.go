package session

import (
	"errors"
	"fmt"
)

// Kind discriminates domain errors so callers can pick behavior (and
// the HTTP layer a status code) without matching message text.
type Kind string

const (
	KindInvalidConfig Kind = "invalid_config"
	KindNotFound      Kind = "session_not_found"
	KindCompleted     Kind = "session_already_completed"
	KindInvalidAction Kind = "invalid_action"
	KindConflict      Kind = "version_conflict"
	KindStore         Kind = "store_failure"
)

// Error is a domain error with a machine-readable kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("session: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a domain error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown or expired session id.
func NotFoundError(id string) *Error {
	return NewError(KindNotFound, "session %q not found", id)
}

// CompletedError reports a move against a terminal session.
func CompletedError(id string) *Error {
	return NewError(KindCompleted, "session %q is already completed", id)
}

// InvalidConfigError reports config values outside the allowed set.
func InvalidConfigError(format string, args ...any) *Error {
	return NewError(KindInvalidConfig, format, args...)
}

// InvalidActionError reports a malformed or out-of-range move payload.
func InvalidActionError(format string, args ...any) *Error {
	return NewError(KindInvalidAction, format, args...)
}

// StoreError wraps a driver failure so it stays distinct from the
// domain kinds above. The engine never retries these itself.
func StoreError(op string, cause error) *Error {
	return &Error{
		Kind:    KindStore,
		Message: fmt.Sprintf("store %s failed: %v", op, cause),
		Cause:   cause,
	}
}

// KindOf returns the kind of a domain error, or KindStore for any
// other non-nil error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsCompleted reports whether err means the session was terminal.
func IsCompleted(err error) bool { return IsKind(err, KindCompleted) }

// IsConflict reports whether err means a concurrent writer won.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }
