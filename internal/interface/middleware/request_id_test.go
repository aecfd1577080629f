package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danisyahputra/taskapi/internal/interface/middleware"
)

func requestIDEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := requestIDEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Body.String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestRequestID_InboundHeaderReused(t *testing.T) {
	r := requestIDEngine()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-42", w.Body.String())
	assert.Equal(t, "upstream-42", w.Header().Get("X-Request-ID"))
}
