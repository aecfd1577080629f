package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
)

// TaskListOptions narrows and pages a task listing. A nil Completed means
// no completion filter.
type TaskListOptions struct {
	Completed *bool
	Limit     int64
	Skip      int64
	SortField string // created_at, updated_at, description, completed
	SortAsc   bool
}

// TaskPatch carries the mutable task fields; nil means leave unchanged.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

// TaskRepository defines task persistence. Every by-id operation takes the
// owner and must evaluate (id AND owner) as a single storage command, so a
// task owned by someone else is indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id, owner primitive.ObjectID) (*entity.Task, error)
	List(ctx context.Context, owner primitive.ObjectID, opts TaskListOptions) ([]*entity.Task, error)
	Update(ctx context.Context, id, owner primitive.ObjectID, patch TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
}
