package application_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/danisyahputra/taskapi/internal/application"
	"github.com/danisyahputra/taskapi/internal/domain/entity"
	"github.com/danisyahputra/taskapi/internal/domain/repository"
	"github.com/danisyahputra/taskapi/internal/infrastructure/memory"
	"github.com/danisyahputra/taskapi/pkg/helpers"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserService(t *testing.T) (*application.UserService, *memory.UserRepository, *memory.TaskRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	tasks := memory.NewTaskRepository()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := application.NewUserService(users, tasks, jwt, nil, "", nil, quietLogger(), bcrypt.MinCost)
	return svc, users, tasks
}

func TestSignup_HashesPasswordAndOpensSession(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, token, err := svc.Signup(ctx, application.SignupInput{
		Name:     "Ann",
		Email:    "  Ann@X.com ",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", stored.Email)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "secret123"))
	assert.Contains(t, stored.Tokens, token)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, application.SignupInput{Name: "Imposter", Email: "ANN@x.com", Password: "different1"})
	assert.ErrorIs(t, err, application.ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	// No session is recorded for the failed attempt.
	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Tokens, 1)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newUserService(t)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "secret123")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestLogin_ConcurrentSessionsAllSurvive(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, signupToken, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)

	const logins = 8
	var wg sync.WaitGroup
	tokens := make([]string, logins)
	errs := make([]error, logins)
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, tokens[i], errs[i] = svc.Login(ctx, "ann@x.com", "secret123")
		}(i)
	}
	wg.Wait()
	for _, lerr := range errs {
		require.NoError(t, lerr)
	}

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Tokens, logins+1)

	seen := map[string]bool{signupToken: true}
	for _, tok := range tokens {
		assert.False(t, seen[tok], "token reused across sessions")
		seen[tok] = true
		assert.Contains(t, stored.Tokens, tok)
	}
}

func TestLogout_RemovesOnlyPresentedToken(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, first, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, "ann@x.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u, first))

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Tokens, first)
	assert.Contains(t, stored.Tokens, second)
}

func TestLogoutAll_ClearsEverySession(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "ann@x.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, u))

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc, users, _ := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u, "wrong-current", "brand-new-pass")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u, "secret123", "brand-new-pass"))

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "brand-new-pass", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "brand-new-pass"))
	assert.False(t, helpers.CompareHashAndPassword(stored.Password, "secret123"))
}

// brokenDeleteUserRepo fails every account delete.
type brokenDeleteUserRepo struct {
	*memory.UserRepository
}

func (r *brokenDeleteUserRepo) Delete(context.Context, primitive.ObjectID) error {
	return errors.New("storage offline")
}

func TestDeleteAccount_FailedUserDeleteKeepsTasks(t *testing.T) {
	t.Parallel()
	users := &brokenDeleteUserRepo{memory.NewUserRepository()}
	tasks := memory.NewTaskRepository()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := application.NewUserService(users, tasks, jwt, nil, "", nil, quietLogger(), bcrypt.MinCost)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, &entity.Task{Description: "keep me", Owner: u.ID}))

	require.Error(t, svc.DeleteAccount(ctx, u))

	// The account could not be removed, so its tasks must survive.
	remaining, err := tasks.List(ctx, u.ID, repository.TaskListOptions{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestDeleteAccount_CascadesToTasks(t *testing.T) {
	t.Parallel()
	svc, users, tasks := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, application.SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	for _, d := range []string{"one", "two"} {
		require.NoError(t, tasks.Create(ctx, &entity.Task{Description: d, Owner: u.ID}))
	}

	require.NoError(t, svc.DeleteAccount(ctx, u))

	_, err = users.GetByID(ctx, u.ID)
	assert.Error(t, err)
	remaining, err := tasks.List(ctx, u.ID, repository.TaskListOptions{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
