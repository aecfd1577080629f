package router

import (
	"github.com/danisyahputra/taskapi/internal/application"
	"github.com/danisyahputra/taskapi/internal/container"
	"github.com/danisyahputra/taskapi/internal/infrastructure/mongodb"
	handlers "github.com/danisyahputra/taskapi/internal/interface/http"
	"github.com/danisyahputra/taskapi/internal/interface/middleware"
	"github.com/danisyahputra/taskapi/internal/router/modules"
)

// InitModules builds all application modules from the container singletons
// and registers them with the router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	userSvc := application.NewUserService(
		userRepo,
		taskRepo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		logger,
		cfg.BcryptCost,
	)
	taskSvc := application.NewTaskService(taskRepo, logger)

	auth := middleware.RequireAuth(userRepo, container.GetJWT(), logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), auth))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), auth))
	r.Add(modules.NewHealthModule(db))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
