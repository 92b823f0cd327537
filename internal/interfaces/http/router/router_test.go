package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.Prefix())
	assert.Empty(t, r.registrars)

	assert.Equal(t, "/internal", NewRouter(gin.New(), WithBasePath("internal")).Prefix())
	assert.Equal(t, "/", NewRouter(gin.New(), WithBasePath("")).Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	})
	r.Register(NewDomainGroup("/test").GET("/a", func(c *gin.Context) { c.Status(http.StatusOK) }))
	r.Setup()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/test/a").Header().Get("X-API"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("/test").
			GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("/items", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			PUT("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
			DELETE("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/test/items").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/test/items").Code)
		assert.Equal(t, "123", serve(engine, http.MethodPut, "/api/test/items/123").Body.String())
		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/test/items/123").Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("/test").Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, "applied", serve(engine, http.MethodGet, "/api/test/items").Header().Get("X-Test-Middleware"))
	})

	t.Run("middleware does not leak to sibling groups", func(t *testing.T) {
		engine := gin.New()
		api := engine.Group("/api")
		NewDomainGroup("/a").Use(func(c *gin.Context) {
			c.Header("X-Scoped", "a")
			c.Next()
		}).GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).RegisterRoutes(api)
		NewDomainGroup("/b").GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).RegisterRoutes(api)

		assert.Equal(t, "a", serve(engine, http.MethodGet, "/api/a").Header().Get("X-Scoped"))
		assert.Empty(t, serve(engine, http.MethodGet, "/api/b").Header().Get("X-Scoped"))
	})
}

func TestRegisterAPI(t *testing.T) {
	engine := gin.New()
	limited := 0
	r := NewRouter(engine)
	RegisterAPI(r, Handlers{
		Product:   handler.NewProductHandler(nil, nil),
		Dashboard: handler.NewDashboardHandler(nil),
		Export:    handler.NewExportHandler(nil),
		AI:        handler.NewAIHandler(nil, nil, nil),
		Auth:      handler.NewAuthHandler(nil),
		System:    handler.NewSystemHandler("pm", "dev", nil),
	}, func(c *gin.Context) {
		limited++
		c.Next()
	})
	r.Setup()

	var routes []string
	for _, route := range engine.Routes() {
		routes = append(routes, route.Method+" "+route.Path)
	}
	sort.Strings(routes)

	expected := []string{
		"DELETE /api/ai/sessions",
		"DELETE /api/products/:id",
		"GET /api/ai/charts/:kind",
		"GET /api/ai/sessions",
		"GET /api/dashboard",
		"GET /api/export/dashboard/pdf",
		"GET /api/export/products/csv",
		"GET /api/export/products/pdf",
		"GET /api/products",
		"GET /api/products/:id",
		"GET /api/products/category/:category",
		"GET /api/products/export/csv",
		"GET /api/products/export/pdf",
		"GET /api/products/sorted",
		"GET /api/system/info",
		"GET /api/system/ping",
		"POST /api/ai/chat",
		"POST /api/ai/chat/clear",
		"POST /api/ai/chat/visual",
		"POST /api/ai/query",
		"POST /api/ai/report",
		"POST /api/auth/login",
		"POST /api/auth/register",
		"POST /api/products",
		"POST /api/products/filter",
		"POST /api/products/search",
		"PUT /api/products/:id",
	}
	assert.Equal(t, expected, routes)

	t.Run("ai middleware is scoped to the assistant", func(t *testing.T) {
		serve(engine, http.MethodPost, "/api/ai/chat/clear")
		serve(engine, http.MethodGet, "/api/system/ping")
		assert.Equal(t, 1, limited)
	})
}
