package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines user persistence. Token mutations must be atomic at
// the storage layer (push/pull on the stored list), never an in-process
// read-modify-write, so concurrent logins cannot clobber each other.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateProfile persists name, email, age and avatar URL.
	UpdateProfile(ctx context.Context, u *entity.User) error
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error

	PushToken(ctx context.Context, id primitive.ObjectID, token string) error
	PullToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearTokens(ctx context.Context, id primitive.ObjectID) error

	Delete(ctx context.Context, id primitive.ObjectID) error
}
