package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler handles product, collection and search API endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// LimitQuery is the optional size of a fixed list
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SuggestionsQuery is a search-as-you-type request
type SuggestionsQuery struct {
	Query string `form:"q" binding:"max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=20"`
}

// ListProducts godoc
// @Summary      Search products
// @Description  Lists products matching q in the requested order, with cursor pagination
// @Tags         products
// @Produce      json
// @Param        q     query string false "Search term"
// @Param        sort  query string false "Sort slug" Enums(trending-desc, latest-desc, price-asc, price-desc)
// @Param        after query string false "Cursor of the previous page"
// @Param        limit query int    false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=catalog.SearchResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var in catalog.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.catalogService.GetProducts(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result, len(result.Products), result.PageInfo.EndCursor, result.PageInfo.HasNextPage)
}

// BestSellers godoc
// @Summary      Best selling products
// @Tags         products
// @Produce      json
// @Param        limit query int false "Number of products" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]commerce.Product}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/products/best-sellers [get]
func (h *CatalogHandler) BestSellers(c *gin.Context) {
	var q LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := h.catalogService.BestSellers(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// RandomProducts godoc
// @Summary      Random products
// @Description  Returns products sampled from the first page of the catalog
// @Tags         products
// @Produce      json
// @Param        limit query int false "Number of products" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]commerce.Product}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/products/random [get]
func (h *CatalogHandler) RandomProducts(c *gin.Context) {
	var q LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := h.catalogService.RandomProducts(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	h.Success(c, products)
}

// GetProduct godoc
// @Summary      Get product by handle
// @Tags         products
// @Produce      json
// @Param        handle path string true "Product handle"
// @Success      200 {object} dto.Response{data=commerce.Product}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/products/{handle} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetRecommendations godoc
// @Summary      Products related to a product
// @Description  Never fails once the product exists: an unavailable platform yields an empty list
// @Tags         products
// @Produce      json
// @Param        handle path string true "Product handle"
// @Success      200 {object} dto.Response{data=[]commerce.Product}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/products/{handle}/recommendations [get]
func (h *CatalogHandler) GetRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.catalogService.GetProduct(ctx, c.Param("handle"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.catalogService.GetRecommendations(ctx, product.ID))
}

// ListCollections godoc
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Success      200 {object} dto.Response{data=[]commerce.Collection}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/collections [get]
func (h *CatalogHandler) ListCollections(c *gin.Context) {
	collections, err := h.catalogService.GetCollections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collections)
}

// GetCollectionProducts godoc
// @Summary      List a collection's products
// @Tags         collections
// @Produce      json
// @Param        handle path  string true  "Collection handle"
// @Param        q      query string false "Narrow results to matching products"
// @Param        sort   query string false "Sort slug"
// @Param        after  query string false "Cursor of the previous page"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} dto.Response{data=catalog.CollectionResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/collections/{handle}/products [get]
func (h *CatalogHandler) GetCollectionProducts(c *gin.Context) {
	var in catalog.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.catalogService.GetCollectionProducts(c.Request.Context(), c.Param("handle"), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, len(result.Products), result.PageInfo.EndCursor, result.PageInfo.HasNextPage)
}

// Suggestions godoc
// @Summary      Search suggestions
// @Description  Products and collections matching a partial search term
// @Tags         search
// @Produce      json
// @Param        q     query string false "Partial search term"
// @Param        limit query int    false "Maximum matches per kind" minimum(1) maximum(20)
// @Success      200 {object} dto.Response{data=catalog.Suggestions}
// @Router       /api/search/suggestions [get]
func (h *CatalogHandler) Suggestions(c *gin.Context) {
	var q SuggestionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	suggestions, err := h.catalogService.Suggestions(c.Request.Context(), q.Query, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestions)
}
