package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Route registration only needs method values; none of these handlers are
// invoked except the dependency-free system endpoints.
func testHandlers(withOAuth bool) Handlers {
	h := Handlers{
		System:     handler.NewSystemHandler("storefront", "test", nil, ""),
		Catalog:    &handler.CatalogHandler{},
		Content:    &handler.ContentHandler{},
		Cart:       &handler.CartHandler{},
		Auth:       &handler.AuthHandler{},
		Vitals:     &handler.VitalsHandler{},
		Revalidate: &handler.RevalidateHandler{},
		SEO:        &handler.SEOHandler{},
		Pages:      &handler.PagesHandler{},
	}
	if withOAuth {
		h.OAuth = &handler.OAuthHandler{}
	}
	return h
}

func routeSet(engine *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, r := range engine.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestStorefront_RegistersRoutes(t *testing.T) {
	engine := gin.New()
	Storefront(engine, testHandlers(true), Options{})

	routes := routeSet(engine)
	expected := []string{
		"GET /health",
		"GET /sitemap.xml",
		"GET /robots.txt",
		"GET /opengraph-image",
		"GET /",
		"GET /search",
		"GET /search/:collection",
		"GET /product/:handle",
		"GET /blog",
		"GET /blog/:blog",
		"GET /blog/:blog/:article",
		"GET /cart",
		"POST /cart/add",
		"POST /cart/update",
		"GET /login",
		"POST /login",
		"GET /register",
		"POST /register",
		"POST /logout",
		"GET /account",
		"GET /auth/:provider/login",
		"GET /auth/:provider/callback",
		"GET /api/system/info",
		"GET /api/system/ping",
		"GET /api/system/jobs",
		"POST /api/system/jobs/:name/run",
		"GET /api/products",
		"GET /api/products/best-sellers",
		"GET /api/products/random",
		"GET /api/products/:handle",
		"GET /api/products/:handle/recommendations",
		"GET /api/collections",
		"GET /api/collections/:handle/products",
		"GET /api/search/suggestions",
		"GET /api/blogs/:blog/articles",
		"GET /api/blogs/:blog/articles/:article",
		"GET /api/pages/:handle",
		"GET /api/cart",
		"POST /api/cart/lines",
		"PATCH /api/cart/lines/:line_id",
		"DELETE /api/cart/lines/:line_id",
		"POST /api/auth/login",
		"POST /api/auth/register",
		"POST /api/auth/logout",
		"POST /api/auth/recover",
		"GET /api/account",
		"POST /api/vitals",
		"GET /api/vitals/summary",
		"POST /api/revalidate",
		"GET /static/*filepath",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
	assert.False(t, routes["GET /metrics"])
}

func TestStorefront_WithoutOAuth(t *testing.T) {
	engine := gin.New()
	Storefront(engine, testHandlers(false), Options{})

	routes := routeSet(engine)
	assert.False(t, routes["GET /auth/:provider/login"])
	assert.False(t, routes["GET /auth/:provider/callback"])
}

func TestStorefront_SystemEndpoints(t *testing.T) {
	engine := gin.New()
	Storefront(engine, testHandlers(false), Options{})

	w := serve(engine, http.MethodGet, "/api/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	w = serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStorefront_Metrics(t *testing.T) {
	engine := gin.New()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("storefront_http_requests_total 1\n"))
	})
	Storefront(engine, testHandlers(false), Options{Metrics: metrics, MetricsPath: "/internal/metrics"})

	w := serve(engine, http.MethodGet, "/internal/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_http_requests_total")
}

func TestStorefront_AuthLimit(t *testing.T) {
	engine := gin.New()
	apiDeny := func(c *gin.Context) { c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "limited"}) }
	pageDeny := func(c *gin.Context) { c.AbortWithStatus(http.StatusTeapot) }
	Storefront(engine, testHandlers(false), Options{AuthLimit: apiDeny, PageAuthLimit: pageDeny})

	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/api/auth/recover"} {
		w := serve(engine, http.MethodPost, path)
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}
	for _, path := range []string{"/login", "/register"} {
		w := serve(engine, http.MethodPost, path)
		assert.Equal(t, http.StatusTeapot, w.Code, path)
	}

	w := serve(engine, http.MethodGet, "/api/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)
}
