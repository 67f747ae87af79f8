package repository

import "errors"

var (
	// ErrNotFound indicates no row matched. For owner-scoped task queries this
	// covers both a missing task and a task that belongs to someone else.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateCredential is returned when a username or email is already taken.
	ErrDuplicateCredential = errors.New("repository: duplicate credential")
)
