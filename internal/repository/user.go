package repository

import (
	"context"

	"todo-tracker/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	// Create inserts the user and sets its ID. Returns ErrDuplicateCredential
	// when the username or email already exists.
	Create(ctx context.Context, user *domain.User) (int64, error)
	// FindByEmail returns nil without error when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
