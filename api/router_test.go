package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charlie572/Blind-Maze-Game/api/i"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubController struct{}

func (stubController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
}

func (stubController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/secret", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
}

func TestRouterGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)

	deny := func(ctx *gin.Context) {
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
	router := NewRouter(Config{
		BaseURL:                 "/api",
		Controllers:             []i.Controller{stubController{}},
		AuthorizationMiddleware: deny,
	})
	engine := router.engine()

	t.Run("public routes skip the middleware", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		engine.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("protected routes go through the middleware", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil)
		engine.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
