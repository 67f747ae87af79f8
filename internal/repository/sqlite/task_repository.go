package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

const taskColumns = `id, owner_id, title, description, completed, created_at`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (owner_id, title, description, completed, created_at)
VALUES (?, ?, ?, ?, ?)`,
		task.OwnerID,
		task.Title,
		task.Description,
		nullBool(&task.Completed),
		toMillis(task.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	task.ID = id
	return id, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE owner_id = ?
ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) Get(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	return scanTask(row)
}

// Update applies the patch in one conditional statement. Columns whose patch
// field is nil keep their stored value.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID int64, patch domain.TaskPatch) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE tasks
SET title = COALESCE(?, title),
	description = COALESCE(?, description),
	completed = COALESCE(?, completed)
WHERE id = ? AND owner_id = ?
RETURNING `+taskColumns,
		nullString(patch.Title),
		nullString(patch.Description),
		nullBool(patch.Completed),
		id,
		ownerID,
	)
	task, err := scanTask(row)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, err
}

// ToggleCompleted flips the completed flag inside the database so concurrent
// toggles on the same row cannot overwrite each other.
func (r *TaskRepository) ToggleCompleted(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE tasks
SET completed = NOT completed
WHERE id = ? AND owner_id = ?
RETURNING `+taskColumns,
		id,
		ownerID,
	)
	task, err := scanTask(row)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return task, err
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task      domain.Task
		completed int64
		createdAt int64
	)

	if err := scanner.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&completed,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Completed = completed != 0
	task.CreatedAt = fromMillis(createdAt)
	return &task, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
