package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danisyahputra/taskapi/internal/application"
	"github.com/danisyahputra/taskapi/internal/infrastructure/memory"
	handlers "github.com/danisyahputra/taskapi/internal/interface/http"
	"github.com/danisyahputra/taskapi/internal/interface/middleware"
	"github.com/danisyahputra/taskapi/internal/router"
	"github.com/danisyahputra/taskapi/internal/router/modules"
	"github.com/danisyahputra/taskapi/pkg/helpers"
	"github.com/danisyahputra/taskapi/pkg/validation"
)

var initValidation sync.Once

// testServer is the full HTTP surface wired against in-memory storage.
type testServer struct {
	engine *gin.Engine
	users  *memory.UserRepository
	tasks  *memory.TaskRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initValidation.Do(validation.Init)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := memory.NewUserRepository()
	tasks := memory.NewTaskRepository()
	jwt := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}

	userSvc := application.NewUserService(users, tasks, jwt, nil, "", nil, logger, bcrypt.MinCost)
	taskSvc := application.NewTaskService(tasks, logger)
	auth := middleware.RequireAuth(users, jwt, logger)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), auth))
	reg.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), auth))
	reg.RegisterAll()

	return &testServer{engine: engine, users: users, tasks: tasks}
}

// do issues a JSON request; token may be empty for public routes.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type sessionData struct {
	User  userData `json:"user"`
	Token string   `json:"token"`
}

type userData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

type taskData struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// signup registers an account through the API and returns the session.
func (s *testServer) signup(t *testing.T, name, email, password string) sessionData {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sess sessionData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sess))
	require.NotEmpty(t, sess.Token)
	return sess
}

// createTask creates a task for the given session and returns it.
func (s *testServer) createTask(t *testing.T, token, description string) taskData {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"description": description})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task taskData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &task))
	return task
}
