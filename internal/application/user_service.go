package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
	repo "github.com/danisyahputra/taskapi/internal/domain/repository"
	"github.com/danisyahputra/taskapi/pkg/helpers"
	"github.com/danisyahputra/taskapi/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
)

type UserService struct {
	Repo       repo.UserRepository
	Tasks      repo.TaskRepository
	JWT        *helpers.JWTManager
	GCS        *storage.Client
	GCSBucket  string
	Pub        *helpers.RabbitPublisher
	Logger     *logrus.Logger
	BcryptCost int

	// Compared against the submitted password when the email is unknown,
	// so both login failure paths spend a bcrypt verification.
	dummyDigest string
}

func NewUserService(users repo.UserRepository, tasks repo.TaskRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher, logger *logrus.Logger, bcryptCost int) *UserService {
	dummy, err := helpers.HashPassword(uuid.NewString(), bcryptCost)
	if err != nil && logger != nil {
		logger.WithError(err).Warn("dummy digest generation failed")
	}
	return &UserService{
		Repo:        users,
		Tasks:       tasks,
		JWT:         jwt,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Pub:         pub,
		Logger:      logger,
		BcryptCost:  bcryptCost,
		dummyDigest: dummy,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account and opens its first session. The submitted
// password is hashed before the entity ever reaches the repository.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, string, error) {
	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Age:      in.Age,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.openSession(ctx, u)
	if err != nil {
		return nil, "", err
	}

	s.enqueueEmail(ctx, u, "welcome")
	return u, token, nil
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password are indistinguishable to the caller, in shape and in cost.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		helpers.CompareHashAndPassword(s.dummyDigest, password)
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// openSession mints a token and records it in the user's allow-list.
func (s *UserService) openSession(ctx context.Context, u *entity.User) (string, error) {
	token, _, err := s.JWT.Generate(u.ID.Hex())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("token generation failed")
		}
		return "", err
	}
	if err := s.Repo.PushToken(ctx, u.ID, token); err != nil {
		return "", err
	}
	u.Tokens = append(u.Tokens, token)
	return token, nil
}

// Logout revokes exactly the presented session token.
func (s *UserService) Logout(ctx context.Context, u *entity.User, token string) error {
	return s.Repo.PullToken(ctx, u.ID, token)
}

// LogoutAll revokes every session; other devices fail on their next request.
func (s *UserService) LogoutAll(ctx context.Context, u *entity.User) error {
	return s.Repo.ClearTokens(ctx, u.ID)
}

type UpdateProfileInput struct {
	Name  *string
	Email *string
	Age   *int
}

func (s *UserService) UpdateProfile(ctx context.Context, u *entity.User, in UpdateProfileInput) (*entity.User, error) {
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password and always rehashes the new
// one. There is no implicit rehash-on-save path anywhere else.
func (s *UserService) ChangePassword(ctx context.Context, u *entity.User, current, next string) error {
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(next, s.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// UploadAvatar stores the image in GCS and records its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, u *entity.User, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", u.ID.Hex(), id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// DeleteAccount destroys the user and cascades to every owned task. The
// account goes first: if the cascade then fails, the orphaned tasks stay
// unreachable behind the owner filter, whereas the reverse order could
// strip a still-living account of its tasks.
func (s *UserService) DeleteAccount(ctx context.Context, u *entity.User) error {
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	removed, err := s.Tasks.DeleteByOwner(ctx, u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Warn("task cascade failed")
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID.Hex(), "tasks_removed": removed}).Info("account deleted")
	}
	s.enqueueEmail(ctx, u, "farewell")
	return nil
}

func (s *UserService) enqueueEmail(ctx context.Context, u *entity.User, template string) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}
