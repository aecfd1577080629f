package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
	"github.com/danisyahputra/taskapi/internal/domain/repository"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]*entity.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[primitive.ObjectID]*entity.Task)}
}

func cloneTask(t *entity.Task) *entity.Task {
	cp := *t
	return &cp
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id, owner primitive.ObjectID) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner {
		return nil, repository.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) List(_ context.Context, owner primitive.ObjectID, opts repository.TaskListOptions) ([]*entity.Task, error) {
	r.mu.RLock()
	matched := make([]*entity.Task, 0)
	for _, t := range r.tasks {
		if t.Owner != owner {
			continue
		}
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	r.mu.RUnlock()

	field := opts.SortField
	if field == "" {
		field = "created_at"
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch field {
		case "updated_at":
			less = a.UpdatedAt.Before(b.UpdatedAt)
		case "description":
			less = a.Description < b.Description
		case "completed":
			less = !a.Completed && b.Completed
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if opts.SortField != "" && !opts.SortAsc {
			return !less
		}
		return less
	})

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			return []*entity.Task{}, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (r *TaskRepository) Update(_ context.Context, id, owner primitive.ObjectID, patch repository.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner {
		return nil, repository.ErrNotFound
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	return cloneTask(t), nil
}

func (r *TaskRepository) Delete(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteByOwner(_ context.Context, owner primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tasks {
		if t.Owner == owner {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
