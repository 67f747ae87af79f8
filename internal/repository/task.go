package repository

import (
	"context"

	"todo-tracker/internal/domain"
)

// TaskRepository exposes owner-scoped persistence operations for tasks.
// Every method that takes an ownerID matches rows on both id and owner, and
// reports ErrNotFound when nothing matched.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	Update(ctx context.Context, id, ownerID int64, patch domain.TaskPatch) (*domain.Task, error)
	ToggleCompleted(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
