package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TopicHeader carries the webhook topic, e.g. products/update
const TopicHeader = "X-Shopify-Topic"

// RevalidateHandler receives platform webhooks and drops stale cache entries
type RevalidateHandler struct {
	BaseHandler
	catalogService *catalog.Service
	secret         string
}

// NewRevalidateHandler creates a new RevalidateHandler
func NewRevalidateHandler(catalogService *catalog.Service, secret string) *RevalidateHandler {
	return &RevalidateHandler{
		catalogService: catalogService,
		secret:         secret,
	}
}

// Revalidate godoc
// @Summary      Revalidate cached catalog data
// @Description  Collection topics invalidate collections, product topics invalidate products; other topics are ignored
// @Tags         webhooks
// @Produce      json
// @Param        secret          query  string true  "Revalidation secret"
// @Param        X-Shopify-Topic header string false "Webhook topic"
// @Success      200 {object} dto.Response{data=catalog.RevalidateResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/revalidate [post]
func (h *RevalidateHandler) Revalidate(c *gin.Context) {
	if !secretMatches(h.secret, c.Query("secret")) {
		logger.GetGinLogger(c).Warn("Invalid revalidation secret")
		h.Unauthorized(c, "Invalid revalidation secret")
		return
	}

	topic := c.GetHeader(TopicHeader)
	if topic == "" {
		topic = "unknown"
	}

	result, err := h.catalogService.Invalidate(c.Request.Context(), topic)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Debug("Webhook handled", zap.String("topic", topic), zap.Int("evicted", result.Evicted))
	h.Success(c, result)
}
