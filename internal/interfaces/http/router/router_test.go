package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Empty(t, r.apiVersion)
	assert.Equal(t, "/api", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterOptions(t *testing.T) {
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).BasePath())
	assert.Equal(t, "/internal", NewRouter(gin.New(), WithPrefix("/internal")).BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var seen bool
	r.Use(func(c *gin.Context) {
		seen = true
		c.Next()
	})

	cart := NewDomainGroup("cart", "/cart")
	cart.GET("", func(c *gin.Context) { c.String(http.StatusOK, "cart") })
	vitals := NewDomainGroup("vitals", "/vitals")
	vitals.GET("/summary", func(c *gin.Context) { c.String(http.StatusOK, "summary") })

	r.Register(cart).Register(vitals)
	assert.Len(t, r.registrars, 2)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/cart")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/vitals/summary")
	assert.Equal(t, "summary", w.Body.String())
	assert.True(t, seen)
}

func TestDomainGroup(t *testing.T) {
	g := NewDomainGroup("cart", "/cart")
	assert.Equal(t, "cart", g.Name())
	assert.Equal(t, "/cart", g.Prefix())

	g.Use(func(c *gin.Context) {
		c.Header("X-Group", "cart")
		c.Next()
	})
	ok := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}
	g.GET("", ok("get")).
		POST("/lines", ok("post")).
		PATCH("/lines/:line_id", ok("patch")).
		DELETE("/lines/:line_id", ok("delete"))
	g.Group("discounts", "/discounts").GET("", ok("discounts"))

	engine := gin.New()
	g.RegisterRoutes(engine.Group("/api"))

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/cart", "get"},
		{http.MethodPost, "/api/cart/lines", "post"},
		{http.MethodPatch, "/api/cart/lines/gid-1", "patch"},
		{http.MethodDelete, "/api/cart/lines/gid-1", "delete"},
		{http.MethodGet, "/api/cart/discounts", "discounts"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			assert.Equal(t, "cart", w.Header().Get("X-Group"))
		})
	}

	w := serve(engine, http.MethodPut, "/api/cart/lines/gid-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
