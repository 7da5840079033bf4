package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/view"
)

// Handlers groups the storefront's HTTP handlers. OAuth is nil when no
// external identity provider is configured.
type Handlers struct {
	System     *handler.SystemHandler
	Catalog    *handler.CatalogHandler
	Content    *handler.ContentHandler
	Cart       *handler.CartHandler
	Auth       *handler.AuthHandler
	OAuth      *handler.OAuthHandler
	Vitals     *handler.VitalsHandler
	Revalidate *handler.RevalidateHandler
	SEO        *handler.SEOHandler
	Pages      *handler.PagesHandler
}

// Options carries route-level middleware and optional endpoints.
type Options struct {
	// AuthLimit guards credential API endpoints (sign in, sign up, recovery).
	AuthLimit gin.HandlerFunc
	// PageAuthLimit guards the sign-in and sign-up form posts. It should
	// answer with a rendered page rather than JSON.
	PageAuthLimit gin.HandlerFunc
	// Metrics is served on MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
}

// Storefront registers every page, API and crawler route on engine.
// Anything that matches no route falls through to the CMS page handler,
// which renders content pages by handle or the 404 page.
func Storefront(engine *gin.Engine, h Handlers, opts Options) *Router {
	guard := func(limit gin.HandlerFunc) func(...gin.HandlerFunc) []gin.HandlerFunc {
		return func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
			if limit == nil {
				return handlers
			}
			return append([]gin.HandlerFunc{limit}, handlers...)
		}
	}
	limited := guard(opts.AuthLimit)
	pageLimited := guard(opts.PageAuthLimit)

	engine.GET("/health", h.System.Health)
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(opts.Metrics))
	}
	engine.StaticFS("/static", view.StaticFS())

	// Crawlers
	engine.GET("/sitemap.xml", h.SEO.Sitemap)
	engine.GET("/robots.txt", h.SEO.Robots)
	engine.GET("/opengraph-image", h.SEO.OpenGraphImage)

	// Pages
	engine.GET("/", h.Pages.Home)
	engine.GET("/search", h.Pages.Search)
	engine.GET("/search/:collection", h.Pages.SearchCollection)
	engine.GET("/product/:handle", h.Pages.Product)
	engine.GET("/blog", h.Pages.DefaultBlog)
	engine.GET("/blog/:blog", h.Pages.Blog)
	engine.GET("/blog/:blog/:article", h.Pages.Article)
	engine.GET("/cart", h.Pages.Cart)
	engine.POST("/cart/add", h.Pages.AddToCart)
	engine.POST("/cart/update", h.Pages.UpdateCart)
	engine.GET("/login", h.Pages.LoginForm)
	engine.POST("/login", pageLimited(h.Pages.Login)...)
	engine.GET("/register", h.Pages.RegisterForm)
	engine.POST("/register", pageLimited(h.Pages.Register)...)
	engine.POST("/logout", h.Pages.Logout)
	engine.GET("/account", h.Pages.Account)

	if h.OAuth != nil {
		engine.GET("/auth/:provider/login", h.OAuth.Login)
		engine.GET("/auth/:provider/callback", h.OAuth.Callback)
	}

	engine.NoRoute(h.Pages.CMSPage)

	r := NewRouter(engine)
	r.Register(systemRoutes(h.System))
	r.Register(catalogRoutes(h.Catalog))
	r.Register(contentRoutes(h.Content))
	r.Register(cartRoutes(h.Cart))
	r.Register(authRoutes(h.Auth, limited))
	r.Register(vitalsRoutes(h.Vitals))
	r.Register(NewDomainGroup("revalidate", "/revalidate").POST("", h.Revalidate.Revalidate))
	r.Setup()

	return r
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	g.GET("/ping", h.Ping)
	g.GET("/jobs", h.ListJobs)
	g.POST("/jobs/:name/run", h.RunJob)
	return g
}

func catalogRoutes(h *handler.CatalogHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "")

	products := g.Group("products", "/products")
	products.GET("", h.ListProducts)
	products.GET("/best-sellers", h.BestSellers)
	products.GET("/random", h.RandomProducts)
	products.GET("/:handle", h.GetProduct)
	products.GET("/:handle/recommendations", h.GetRecommendations)

	collections := g.Group("collections", "/collections")
	collections.GET("", h.ListCollections)
	collections.GET("/:handle/products", h.GetCollectionProducts)

	g.Group("search", "/search").GET("/suggestions", h.Suggestions)
	return g
}

func contentRoutes(h *handler.ContentHandler) *DomainGroup {
	g := NewDomainGroup("content", "")
	g.GET("/blogs/:blog/articles", h.ListArticles)
	g.GET("/blogs/:blog/articles/:article", h.GetArticle)
	g.GET("/pages/:handle", h.GetPage)
	return g
}

func cartRoutes(h *handler.CartHandler) *DomainGroup {
	g := NewDomainGroup("cart", "/cart")
	g.GET("", h.GetCart)
	g.POST("/lines", h.AddItem)
	g.PATCH("/lines/:line_id", h.UpdateItem)
	g.DELETE("/lines/:line_id", h.RemoveItem)
	return g
}

func authRoutes(h *handler.AuthHandler, limited func(...gin.HandlerFunc) []gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "")

	auth := g.Group("auth", "/auth")
	auth.POST("/login", limited(h.Login)...)
	auth.POST("/register", limited(h.Register)...)
	auth.POST("/logout", h.Logout)
	auth.POST("/recover", limited(h.Recover)...)

	g.GET("/account", middleware.RequireSession(), h.Account)
	return g
}

func vitalsRoutes(h *handler.VitalsHandler) *DomainGroup {
	g := NewDomainGroup("vitals", "/vitals")
	g.POST("", h.Record)
	g.GET("/summary", h.Summary)
	return g
}
