package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/content"
	"github.com/storefront/backend/internal/application/seo"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/tests/testutil"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func basePage(data any) Page {
	return Page{
		Meta: seo.Metadata{
			Title:     "Shirt | Acme",
			Canonical: "https://shop.example.com/product/shirt",
			Robots:    seo.Robots{Index: true, Follow: true},
			OpenGraph: seo.OpenGraph{Type: "website", Title: "Shirt", SiteName: "Acme"},
		},
		SiteName:  "Acme",
		Menu:      []commerce.MenuItem{{Title: "Shirts", Path: "/search/shirts"}},
		CartCount: 2,
		Data:      data,
	}
}

func TestNewEngine_ParsesEveryPage(t *testing.T) {
	e := newEngine(t)
	assert.ElementsMatch(t, []string{
		PageHome, PageSearch, PageProduct, PageBlog, PageArticle, PageCart,
		PageLogin, PageRegister, PageAccount, PageCMS, PageError,
	}, e.Pages())
}

func TestEngine_RenderProduct(t *testing.T) {
	e := newEngine(t)
	fx := testutil.NewFixtures(1)
	p := fx.Product()
	p.DescriptionHTML = "<p>Soft <strong>cotton</strong></p>"
	related := fx.Products(2)

	page := basePage(ProductData{Product: &p, Recommendations: related, Added: true})
	page.Meta.JSONLD = map[string]any{"@type": "Product", "name": "</script><b>"}

	html, err := e.RenderString(PageProduct, page)
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Shirt | Acme</title>")
	assert.Contains(t, html, `<link rel="canonical" href="https://shop.example.com/product/shirt">`)
	assert.Contains(t, html, `<meta name="robots" content="index, follow">`)
	assert.Contains(t, html, `<script type="application/ld+json">`)
	assert.NotContains(t, html, "</script><b>", "JSON-LD is escaped")
	assert.Contains(t, html, "<strong>cotton</strong>", "merchant HTML is rendered")
	assert.Contains(t, html, `name="merchandise_id" value="`+p.Variants[0].ID+`"`)
	assert.Contains(t, html, p.PriceRange.MinVariantPrice.String())
	assert.Contains(t, html, "Added to cart.")
	assert.Contains(t, html, "/product/"+related[1].Handle)
	assert.Contains(t, html, "Cart (2)")
}

func TestEngine_RenderSearchEscapesQuery(t *testing.T) {
	e := newEngine(t)
	html, err := e.RenderString(PageSearch, basePage(SearchData{
		Result:      searchResult(`<img src=x>`, true),
		SortOptions: commerce.SortOptions,
		BasePath:    "/search",
	}))
	require.NoError(t, err)
	assert.NotContains(t, html, "<img src=x>")
	assert.Contains(t, html, "Showing 0 results for")
	assert.Contains(t, html, "sort=price-asc")
	assert.Contains(t, html, "after=cursor-1")
}

func searchResult(query string, hasNext bool) *catalog.SearchResult {
	return &catalog.SearchResult{
		Query:    query,
		Sort:     commerce.DefaultSort,
		PageInfo: commerce.PageInfo{HasNextPage: hasNext, EndCursor: "cursor-1"},
	}
}

func TestEngine_RenderArticle(t *testing.T) {
	e := newEngine(t)
	fx := testutil.NewFixtures(2)
	published := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	a := fx.Article("news", published, "go")
	related := fx.Article("news", published, "go")

	html, err := e.RenderString(PageArticle, basePage(ArticleData{View: &content.ArticleView{
		Article: a,
		Blog:    commerce.Blog{Handle: "news", Title: "News"},
		Related: []commerce.Article{related},
	}}))
	require.NoError(t, err)
	assert.Contains(t, html, "March 5, 2024")
	assert.Contains(t, html, "Related posts")
	assert.Contains(t, html, "/blog/news/"+related.Handle)
}

func TestEngine_RenderCart(t *testing.T) {
	e := newEngine(t)
	fx := testutil.NewFixtures(3)

	html, err := e.RenderString(PageCart, basePage(CartData{}))
	require.NoError(t, err)
	assert.Contains(t, html, "Your cart is empty.")

	cart := fx.Cart(fx.Product())
	html, err = e.RenderString(PageCart, basePage(CartData{Cart: cart}))
	require.NoError(t, err)
	assert.Contains(t, html, cart.CheckoutURL)
	assert.Contains(t, html, `value="`+cart.Lines[0].ID+`"`)
	assert.Contains(t, html, `name="quantity" value="2"`)
}

func TestEngine_RenderLoginForm(t *testing.T) {
	e := newEngine(t)
	html, err := e.RenderString(PageLogin, basePage(FormData{
		Values:       map[string]string{"email": "ada@example.com"},
		Errors:       map[string]string{"password": "This field is required"},
		OAuthEnabled: true,
		OAuthURL:     "/auth/google/login",
	}))
	require.NoError(t, err)
	assert.Contains(t, html, `value="ada@example.com"`)
	assert.Contains(t, html, "This field is required")
	assert.Contains(t, html, `href="/auth/google/login"`)

	html, err = e.RenderString(PageLogin, basePage(FormData{}))
	require.NoError(t, err)
	assert.NotContains(t, html, "Continue with Google")
}

func TestEngine_RenderUnknownPage(t *testing.T) {
	e := newEngine(t)
	_, err := e.RenderString("missing", basePage(nil))
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestEngine_GinInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := newEngine(t)
	router := gin.New()
	router.HTMLRender = e
	router.GET("/missing", func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "no-such-page", basePage(ErrorData{Status: 404, Title: "Page not found", Message: "Gone."}))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestStaticFS(t *testing.T) {
	f, err := StaticFS().Open("vitals.js")
	require.NoError(t, err)
	defer f.Close()
	stat, err := f.Stat()
	require.NoError(t, err)
	assert.Positive(t, stat.Size())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héllo w...", truncate("héllo wörld again", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
