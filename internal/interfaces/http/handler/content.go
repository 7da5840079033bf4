package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/content"
)

// ContentHandler handles blog and page API endpoints
type ContentHandler struct {
	BaseHandler
	contentService *content.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *content.Service) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ArticlesQuery pages through a blog
type ArticlesQuery struct {
	First int    `form:"first" binding:"omitempty,min=1,max=50"`
	After string `form:"after" binding:"max=500"`
}

// ListArticles godoc
// @Summary      List blog articles
// @Description  Newest first, with cursor pagination
// @Tags         blog
// @Produce      json
// @Param        blog  path  string true  "Blog handle"
// @Param        first query int    false "Page size" minimum(1) maximum(50)
// @Param        after query string false "Cursor of the previous page"
// @Success      200 {object} dto.Response{data=commerce.ArticlePage}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/blogs/{blog}/articles [get]
func (h *ContentHandler) ListArticles(c *gin.Context) {
	var q ArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.contentService.GetBlogArticles(c.Request.Context(), c.Param("blog"), q.First, q.After)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page, len(page.Articles), page.PageInfo.EndCursor, page.PageInfo.HasNextPage)
}

// GetArticle godoc
// @Summary      Get an article with related posts
// @Tags         blog
// @Produce      json
// @Param        blog    path string true "Blog handle"
// @Param        article path string true "Article handle"
// @Success      200 {object} dto.Response{data=content.ArticleView}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/blogs/{blog}/articles/{article} [get]
func (h *ContentHandler) GetArticle(c *gin.Context) {
	view, err := h.contentService.GetArticle(c.Request.Context(), c.Param("blog"), c.Param("article"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// GetPage godoc
// @Summary      Get a content page
// @Tags         pages
// @Produce      json
// @Param        handle path string true "Page handle"
// @Success      200 {object} dto.Response{data=commerce.Page}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/pages/{handle} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentService.GetPage(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}
