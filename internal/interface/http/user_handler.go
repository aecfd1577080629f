package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/danisyahputra/taskapi/internal/application"
	"github.com/danisyahputra/taskapi/internal/interface/middleware"
	"github.com/danisyahputra/taskapi/pkg/response"
	"github.com/danisyahputra/taskapi/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Age      *int   `json:"age" binding:"omitempty,gte=0"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank"`
	Email *string `json:"email" binding:"omitempty,email"`
	Age   *int    `json:"age" binding:"omitempty,gte=0"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// Signup POST /api/users
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := userapp.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Age != nil {
		in.Age = *req.Age
	}
	u, token, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"email": "already in use"})
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u, "token": token}, "account created", nil)
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "token": token}, "login successful", nil)
}

// Logout POST /api/users/logout revokes the presented token only.
func (h *UserHandler) Logout(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), id.User, id.Token); err != nil {
		h.Logger.WithError(err).Error("logout failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

// LogoutAll POST /api/users/logoutAll revokes every session.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	if err := h.Svc.LogoutAll(c.Request.Context(), id.User); err != nil {
		h.Logger.WithError(err).Error("logout all failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "logged out everywhere", nil)
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	response.Success(c, http.StatusOK, id.User, "profile", nil)
}

// UpdateMe PATCH /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), id.User, userapp.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"email": "already in use"})
			return
		}
		h.Logger.WithError(err).Error("profile update failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// ChangePassword POST /api/users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), id.User, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"current_password": "is incorrect"})
			return
		}
		h.Logger.WithError(err).Error("password change failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// UploadAvatar POST /api/users/me/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "unreadable file"})
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), id.User, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// DeleteMe DELETE /api/users/me destroys the account and its tasks.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), id.User); err != nil {
		h.Logger.WithError(err).Error("account deletion failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}
