package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	taskapp "github.com/danisyahputra/taskapi/internal/application"
	"github.com/danisyahputra/taskapi/internal/interface/middleware"
	"github.com/danisyahputra/taskapi/pkg/response"
	"github.com/danisyahputra/taskapi/pkg/validation"
)

type TaskHandler struct {
	Svc    *taskapp.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *taskapp.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Description string `json:"description" binding:"required,notblank"`
	Completed   bool   `json:"completed"`
}

type updateTaskRequest struct {
	Description *string `json:"description" binding:"omitempty,notblank"`
	Completed   *bool   `json:"completed"`
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), id.User.ID, taskapp.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.Logger.WithError(err).Error("task creation failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusCreated, t, "task created", nil)
}

// List GET /api/tasks?completed=true&limit=10&skip=0&sortBy=createdAt:desc
func (h *TaskHandler) List(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	in := taskapp.ListTasksInput{SortBy: c.Query("sortBy")}
	if v := c.Query("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"completed": "must be a boolean"})
			return
		}
		in.Completed = &b
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"limit": "must be a non-negative integer"})
			return
		}
		in.Limit = n
	}
	if v := c.Query("skip"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"skip": "must be a non-negative integer"})
			return
		}
		in.Skip = n
	}
	tasks, err := h.Svc.List(c.Request.Context(), id.User.ID, in)
	if err != nil {
		h.Logger.WithError(err).Error("task listing failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", map[string]any{"count": len(tasks)})
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), id.User.ID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "task fetch failed")
		return
	}
	response.Success(c, http.StatusOK, t, "task", nil)
}

// Update PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), id.User.ID, c.Param("id"), taskapp.UpdateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondTaskError(c, err, "task update failed")
		return
	}
	response.Success(c, http.StatusOK, t, "task updated", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id.User.ID, c.Param("id")); err != nil {
		h.respondTaskError(c, err, "task deletion failed")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "task deleted", nil)
}

// respondTaskError keeps foreign-owner and missing tasks indistinguishable.
func (h *TaskHandler) respondTaskError(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, taskapp.ErrTaskNotFound) {
		response.Error[any](c, http.StatusNotFound, "task not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
}
