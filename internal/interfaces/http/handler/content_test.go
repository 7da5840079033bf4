package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contentRouter(h *harness) *gin.Engine {
	r := h.router()
	ch := NewContentHandler(h.content)
	api := r.Group("/api")
	api.GET("/blogs/:blog/articles", ch.ListArticles)
	api.GET("/blogs/:blog/articles/:article", ch.GetArticle)
	api.GET("/pages/:handle", ch.GetPage)
	return r
}

func TestContentHandler_ListArticles(t *testing.T) {
	h := newHarness(t)
	now := time.Now()
	articles := []commerce.Article{
		h.fx.Article("news", now),
		h.fx.Article("news", now.Add(-time.Hour)),
	}
	h.storefront.On("GetBlogArticles", mock.Anything, "news", 2, "").Return(&commerce.ArticlePage{
		Blog:     commerce.Blog{Handle: "news", Title: "News"},
		Articles: articles,
		PageInfo: commerce.PageInfo{HasNextPage: true, EndCursor: "a2"},
	}, nil).Once()

	w := serve(contentRouter(h), http.MethodGet, "/api/blogs/news/articles?first=2", nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := testutil.AssertSuccessResponse(t, w)
	meta := resp["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["count"])
	assert.Equal(t, "a2", meta["end_cursor"])
	assert.Len(t, resp["data"].(map[string]interface{})["articles"], 2)
}

func TestContentHandler_ListArticles_UnknownBlog(t *testing.T) {
	h := newHarness(t)
	h.storefront.On("GetBlogArticles", mock.Anything, "ghost", 12, "").Return(nil, nil).Once()

	w := serve(contentRouter(h), http.MethodGet, "/api/blogs/ghost/articles", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	testutil.AssertErrorResponse(t, w, dto.ErrCodeNotFound)
}

func TestContentHandler_ListArticles_PageTooLarge(t *testing.T) {
	h := newHarness(t)

	w := serve(contentRouter(h), http.MethodGet, "/api/blogs/news/articles?first=51", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutil.AssertErrorResponse(t, w, dto.ErrCodeValidation)
}

func TestContentHandler_GetArticle(t *testing.T) {
	h := newHarness(t)
	now := time.Now()
	current := h.fx.Article("news", now, "go", "release")
	related := h.fx.Article("news", now.Add(-time.Hour), "go")
	unrelated := h.fx.Article("news", now.Add(-2*time.Hour), "recipes")
	h.storefront.On("GetArticle", mock.Anything, "news", current.Handle).Return(&current, nil).Once()
	h.storefront.On("GetBlogArticles", mock.Anything, "news", 50, "").Return(&commerce.ArticlePage{
		Blog:     commerce.Blog{Handle: "news", Title: "News"},
		Articles: []commerce.Article{current, related, unrelated},
	}, nil).Once()

	w := serve(contentRouter(h), http.MethodGet, "/api/blogs/news/articles/"+current.Handle, nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, current.Title, data["article"].(map[string]interface{})["title"])
	assert.Equal(t, "News", data["blog"].(map[string]interface{})["title"])

	rel := data["related"].([]interface{})
	require.NotEmpty(t, rel)
	assert.Equal(t, related.Handle, rel[0].(map[string]interface{})["handle"])
	for _, a := range rel {
		assert.NotEqual(t, current.Handle, a.(map[string]interface{})["handle"])
	}
}

func TestContentHandler_GetArticle_RelatedUnavailable(t *testing.T) {
	h := newHarness(t)
	current := h.fx.Article("news", time.Now())
	h.storefront.On("GetArticle", mock.Anything, "news", current.Handle).Return(&current, nil).Once()
	h.storefront.On("GetBlogArticles", mock.Anything, "news", 50, "").Return(nil, commerce.ErrPlatformUnavailable).Once()

	w := serve(contentRouter(h), http.MethodGet, "/api/blogs/news/articles/"+current.Handle, nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["related"])
}

func TestContentHandler_GetPage(t *testing.T) {
	h := newHarness(t)
	page := &commerce.Page{ID: "gid://shopify/Page/1", Handle: "about", Title: "About us", Body: "<p>Hi</p>"}
	h.storefront.On("GetPage", mock.Anything, "about").Return(page, nil).Once()
	h.storefront.On("GetPage", mock.Anything, "missing").Return(nil, nil).Once()
	r := contentRouter(h)

	w := serve(r, http.MethodGet, "/api/pages/about", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "About us", testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})["title"])

	w = serve(r, http.MethodGet, "/api/pages/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	testutil.AssertErrorResponse(t, w, dto.ErrCodeNotFound)
}
