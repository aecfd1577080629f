package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
	"github.com/danisyahputra/taskapi/internal/domain/repository"
)

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(TasksCollection)}
}

// ownerFilter scopes every by-id command to the requesting owner. The check
// happens inside the single storage command, never as a separate read.
func ownerFilter(id, owner primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "owner": owner}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id, owner primitive.ObjectID) (*entity.Task, error) {
	t := &entity.Task{}
	err := r.col.FindOne(ctx, ownerFilter(id, owner)).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, owner primitive.ObjectID, opts repository.TaskListOptions) ([]*entity.Task, error) {
	filter := bson.M{"owner": owner}
	if opts.Completed != nil {
		filter["completed"] = *opts.Completed
	}

	findOpts := options.Find()
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.SortField != "" {
		dir := -1
		if opts.SortAsc {
			dir = 1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	tasks := []*entity.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies the patch with FindOneAndUpdate on the (id, owner) filter,
// a single conditional command, and returns the updated document.
func (r *TaskRepository) Update(ctx context.Context, id, owner primitive.ObjectID, patch repository.TaskPatch) (*entity.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	t := &entity.Task{}
	err := r.col.FindOneAndUpdate(
		ctx,
		ownerFilter(id, owner),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, ownerFilter(id, owner))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every task the owner has; used when an account is destroyed.
func (r *TaskRepository) DeleteByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
