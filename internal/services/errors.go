package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorCooldown     ErrorCode = "cooldown"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorStorage      ErrorCode = "storage"
)

// ServiceError is the error every service returns to the API layer.
type ServiceError struct {
	Code    ErrorCode
	Message string
	// CooldownDaysRemaining is set for ErrorCooldown.
	CooldownDaysRemaining int
	Err                   error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

// ErrCooldownActive is returned by stores when a conditional session insert
// loses against a session completed inside the cooldown window.
var ErrCooldownActive = errors.New("screening cooldown active")

// ErrEmailExists is returned by stores when AddUser finds the email taken.
var ErrEmailExists = errors.New("email already registered")

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewValidationError wraps a response-set validation failure.
func NewValidationError(err error) error {
	return &ServiceError{Code: ErrorInvalid, Message: err.Error(), Err: err}
}

// NewCooldownError reports that the user must wait before screening again.
func NewCooldownError(days int) error {
	return &ServiceError{
		Code:                  ErrorCooldown,
		Message:               fmt.Sprintf("screening available again in %d day(s)", days),
		CooldownDaysRemaining: days,
	}
}

// NewStorageError hides a collaborator failure behind a retryable message.
func NewStorageError(err error) error {
	return &ServiceError{Code: ErrorStorage, Message: "temporarily unavailable, please try again", Err: err}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
