package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/danisyahputra/taskapi/internal/interface/http"
)

// UserModule wires user HTTP handlers and the auth middleware into routes.
// Public: POST /api/users (signup), POST /api/users/login
// Protected: logout, logoutAll, me (get/patch/delete), password, avatar

type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Signup)
	rg.POST("/users/login", m.Handler.Login)

	auth := rg.Group("/users")
	auth.Use(m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/logoutAll", m.Handler.LogoutAll)
		auth.GET("/me", m.Handler.Me)
		auth.PATCH("/me", m.Handler.UpdateMe)
		auth.DELETE("/me", m.Handler.DeleteMe)
		auth.POST("/me/password", m.Handler.ChangePassword)
		auth.POST("/me/avatar", m.Handler.UploadAvatar)
	}
}
