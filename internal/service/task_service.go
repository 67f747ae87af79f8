package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
	"todo-tracker/internal/storage"
)

// TaskService coordinates owner-scoped task operations. Every method takes the
// caller's user id and never touches tasks owned by anyone else.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, title, description string) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID int64) ([]domain.Task, error)
	GetTask(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id, ownerID int64, patch domain.TaskPatch) (*domain.Task, error)
	ToggleTask(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, id, ownerID int64) error
	ExportTasks(ctx context.Context, ownerID int64) (*Export, error)
}

// ExportConfig locates where task snapshots are written. An empty Bucket
// disables exports.
type ExportConfig struct {
	Bucket     string
	KeyPrefix  string
	PresignTTL time.Duration
}

// Export describes an uploaded task snapshot.
type Export struct {
	Location  string
	URL       string
	ExpiresAt time.Time
	Count     int
}

type taskService struct {
	tasks   repository.TaskRepository
	storage storage.Service
	export  ExportConfig
}

func NewTaskService(tasks repository.TaskRepository, store storage.Service, export ExportConfig) TaskService {
	if export.PresignTTL <= 0 {
		export.PresignTTL = 15 * time.Minute
	}
	return &taskService{
		tasks:   tasks,
		storage: store,
		export:  export,
	}
}

func (s *taskService) CreateTask(ctx context.Context, ownerID int64, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}

	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

func (s *taskService) GetTask(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id, ownerID)
	return task, notFound(err)
}

func (s *taskService) UpdateTask(ctx context.Context, id, ownerID int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		patch.Title = &title
	}
	if patch.Empty() {
		return s.GetTask(ctx, id, ownerID)
	}

	task, err := s.tasks.Update(ctx, id, ownerID, patch)
	return task, notFound(err)
}

// ToggleTask flips the completed flag. It is not idempotent: a client retry
// after a lost response flips the task back.
func (s *taskService) ToggleTask(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	task, err := s.tasks.ToggleCompleted(ctx, id, ownerID)
	return task, notFound(err)
}

func (s *taskService) DeleteTask(ctx context.Context, id, ownerID int64) error {
	return notFound(s.tasks.Delete(ctx, id, ownerID))
}

type exportedTask struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type exportDocument struct {
	OwnerID    int64          `json:"owner_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Tasks      []exportedTask `json:"tasks"`
}

// ExportTasks uploads a JSON snapshot of the owner's tasks and returns a
// time-limited download URL for it.
func (s *taskService) ExportTasks(ctx context.Context, ownerID int64) (*Export, error) {
	if s.storage == nil || s.export.Bucket == "" {
		return nil, ErrExportUnavailable
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := exportDocument{
		OwnerID:    ownerID,
		ExportedAt: now,
		Tasks:      make([]exportedTask, len(tasks)),
	}
	for i, task := range tasks {
		doc.Tasks[i] = exportedTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Completed:   task.Completed,
			CreatedAt:   task.CreatedAt,
		}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(s.export.KeyPrefix, ownerID, now)
	location, err := s.storage.Upload(ctx, storage.Object{
		Bucket:      s.export.Bucket,
		Key:         key,
		ContentType: "application/json",
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignGet(ctx, s.export.Bucket, key, s.export.PresignTTL)
	if err != nil {
		return nil, err
	}

	return &Export{
		Location:  location,
		URL:       url,
		ExpiresAt: now.Add(s.export.PresignTTL),
		Count:     len(tasks),
	}, nil
}

func exportKey(prefix string, ownerID int64, at time.Time) string {
	name := fmt.Sprintf("%s-%s.json", at.Format("20060102T150405Z"), uuid.NewString())
	return path.Join(strings.Trim(prefix, "/"), fmt.Sprintf("user-%d", ownerID), name)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
