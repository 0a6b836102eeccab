package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError reports malformed input: a missing field, an unknown
// status, an empty or inverted time window.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a requested window that overlaps an existing
// reservation on the same parking spot.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports an unknown reservation, parking spot or user.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change reservation status from %s to %s", e.From, e.To)
}

type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ErrSpotUnavailable is the message every overlap conflict carries.
const ErrSpotUnavailable = "resource unavailable for requested window"

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return stderrors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return stderrors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return stderrors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return stderrors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return stderrors.As(err, &target)
}
