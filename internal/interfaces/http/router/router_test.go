package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	projects := NewDomainGroup("projects", "/projects")
	projects.GET("", ok)
	r.Register(projects).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/projects").Code)
	assert.Equal(t, http.StatusNotFound, perform(engine, http.MethodGet, "/projects").Code)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	investments := NewDomainGroup("investments", "/investments")
	investments.GET("", ok)
	r.Register(investments).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v2/investments").Code)
	assert.Equal(t, http.StatusNotFound, perform(engine, http.MethodGet, "/api/v1/investments").Code)
}

func TestRouterGroupMiddlewareRunsBeforeRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	r.Use(func(c *gin.Context) {
		order = append(order, "group")
		c.Next()
	})

	projects := NewDomainGroup("projects", "/projects")
	projects.GET("", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})
	r.Register(projects).Setup()

	perform(engine, http.MethodGet, "/api/v1/projects")
	assert.Equal(t, []string{"group", "handler"}, order)
}

func TestDomainGroupMethods(t *testing.T) {
	methods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}

	engine := gin.New()
	r := NewRouter(engine)
	g := NewDomainGroup("projects", "/projects")
	g.GET("/:id", ok)
	g.POST("", ok)
	g.PUT("/:id", ok)
	g.PATCH("/:id/status", ok)
	g.DELETE("/:id", ok)
	r.Register(g).Setup()

	paths := map[string]string{
		http.MethodGet:    "/api/v1/projects/p1",
		http.MethodPost:   "/api/v1/projects",
		http.MethodPut:    "/api/v1/projects/p1",
		http.MethodPatch:  "/api/v1/projects/p1/status",
		http.MethodDelete: "/api/v1/projects/p1",
	}
	for _, method := range methods {
		assert.Equal(t, http.StatusOK, perform(engine, method, paths[method]).Code, method)
	}
}

func TestDomainGroupMiddlewareScopedToGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	guarded := NewDomainGroup("documents", "/documents")
	guarded.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	guarded.GET("", ok)

	open := NewDomainGroup("system", "/system")
	open.GET("/ping", ok)

	r.Register(guarded).Register(open).Setup()

	assert.Equal(t, http.StatusUnauthorized, perform(engine, http.MethodGet, "/api/v1/documents").Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/system/ping").Code)
}

func TestDomainGroupNesting(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	projects := NewDomainGroup("projects", "/projects")
	documents := projects.Group("documents", "/:id/documents")
	documents.GET("", ok)
	r.Register(projects).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/projects/p1/documents").Code)
}

func TestDomainGroupAccessors(t *testing.T) {
	g := NewDomainGroup("funding", "/funding")
	require.Equal(t, "funding", g.Name())
	require.Equal(t, "/funding", g.Prefix())
}

func TestRouterRegistrarOrderPreserved(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var registered []string
	for _, name := range []string{"projects", "investments", "documents"} {
		n := name
		g := NewDomainGroup(n, "/"+n)
		g.GET("", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		r.Register(registrarFunc(func(rg *gin.RouterGroup) {
			registered = append(registered, n)
			g.RegisterRoutes(rg)
		}))
	}
	r.Setup()

	assert.Equal(t, []string{"projects", "investments", "documents"}, registered)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/investments").Code)
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }
