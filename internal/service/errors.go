package service

import "errors"

var (
	// ErrValidation marks a missing or malformed input field. Callers wrap it
	// with the field-specific message.
	ErrValidation = errors.New("validation failed")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("username or email already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTaskNotFound covers both a missing task and one owned by another user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrExportUnavailable means no export storage is configured.
	ErrExportUnavailable = errors.New("task export is not configured")
)

// ValidationMessage returns the human readable part of a validation error.
func ValidationMessage(err error) string {
	var v *validationError
	if errors.As(err, &v) {
		return v.msg
	}
	return err.Error()
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}
