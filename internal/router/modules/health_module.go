package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/danisyahputra/taskapi/pkg/response"
)

type HealthModule struct {
	DB *mongo.Database
}

func NewHealthModule(db *mongo.Database) *HealthModule {
	return &HealthModule{DB: db}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		if m.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := m.DB.Client().Ping(ctx, nil); err != nil {
				response.Error[any](c, http.StatusServiceUnavailable, "storage unreachable", nil)
				return
			}
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "health", nil)
	})
}
