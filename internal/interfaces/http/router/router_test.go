package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type echoRegistrar struct {
	path string
}

func (r *echoRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(r.path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func TestRouter_SetupMountsUnderVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewRouter(engine).
		Register(&echoRegistrar{path: "/state"}).
		Register(&echoRegistrar{path: "/state/:slice"}).
		Setup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/state", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/v1/state/cart", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/state", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "routes only exist under the version prefix")
}

func TestRouter_WithAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).
		Register(&echoRegistrar{path: "/state"}).
		Setup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v2/state", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
