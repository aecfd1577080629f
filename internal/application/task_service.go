package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
	repo "github.com/danisyahputra/taskapi/internal/domain/repository"
)

// ErrTaskNotFound covers both a genuinely missing task and one owned by
// somebody else; callers must not be able to tell the two apart.
var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	Repo   repo.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: tasks, Logger: logger}
}

type CreateTaskInput struct {
	Description string
	Completed   bool
}

func (s *TaskService) Create(ctx context.Context, owner primitive.ObjectID, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		Description: strings.TrimSpace(in.Description),
		Completed:   in.Completed,
		Owner:       owner,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type ListTasksInput struct {
	Completed *bool
	Limit     int64
	Skip      int64
	SortBy    string // "field:asc" or "field:desc", e.g. "createdAt:desc"
}

// sortFields maps the query-parameter names to stored field names.
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

func (s *TaskService) List(ctx context.Context, owner primitive.ObjectID, in ListTasksInput) ([]*entity.Task, error) {
	opts := repo.TaskListOptions{
		Completed: in.Completed,
		Limit:     in.Limit,
		Skip:      in.Skip,
	}
	if in.SortBy != "" {
		field, dir, _ := strings.Cut(in.SortBy, ":")
		if mapped, ok := sortFields[field]; ok {
			opts.SortField = mapped
			opts.SortAsc = dir != "desc"
		}
	}
	return s.Repo.List(ctx, owner, opts)
}

func (s *TaskService) Get(ctx context.Context, owner primitive.ObjectID, id string) (*entity.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	t, err := s.Repo.GetByID(ctx, oid, owner)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

type UpdateTaskInput struct {
	Description *string
	Completed   *bool
}

func (s *TaskService) Update(ctx context.Context, owner primitive.ObjectID, id string, in UpdateTaskInput) (*entity.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	patch := repo.TaskPatch{Completed: in.Completed}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		patch.Description = &trimmed
	}
	t, err := s.Repo.Update(ctx, oid, owner, patch)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

func (s *TaskService) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrTaskNotFound
	}
	err = s.Repo.Delete(ctx, oid, owner)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
