package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// CrawlerDocuments renders sitemap.xml and robots.txt on demand
type CrawlerDocuments interface {
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() string
}

// ObjectReader reads published objects
type ObjectReader interface {
	Get(ctx context.Context, key string) ([]byte, string, error)
}

// ImageRenderer renders Open Graph cards
type ImageRenderer interface {
	Image(ctx context.Context, title string) ([]byte, error)
}

// SEOHandler serves crawler documents and Open Graph images
type SEOHandler struct {
	BaseHandler
	docs    CrawlerDocuments
	objects ObjectReader
	images  ImageRenderer
}

// NewSEOHandler creates a new SEOHandler. objects is consulted first for
// documents the scheduler published; images may be nil when card
// rendering is disabled.
func NewSEOHandler(docs CrawlerDocuments, objects ObjectReader, images ImageRenderer) *SEOHandler {
	return &SEOHandler{
		docs:    docs,
		objects: objects,
		images:  images,
	}
}

// published returns a stored document, or nil when it must be rendered
func (h *SEOHandler) published(c *gin.Context, key string) []byte {
	if h.objects == nil {
		return nil
	}
	body, _, err := h.objects.Get(c.Request.Context(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			logger.GetGinLogger(c).Warn("Failed to read published document", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	return body
}

// Sitemap serves sitemap.xml
func (h *SEOHandler) Sitemap(c *gin.Context) {
	body := h.published(c, scheduler.SitemapKey)
	if body == nil {
		var err error
		body, err = h.docs.Sitemap(c.Request.Context())
		if err != nil {
			logger.GetGinLogger(c).Error("Failed to render sitemap", zap.Error(err))
			c.String(http.StatusInternalServerError, "sitemap unavailable")
			return
		}
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots serves robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	body := h.published(c, scheduler.RobotsKey)
	if body == nil {
		body = []byte(h.docs.Robots())
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

// OpenGraphImage serves the PNG card for ?title=
func (h *SEOHandler) OpenGraphImage(c *gin.Context) {
	if h.images == nil {
		c.Status(http.StatusNotFound)
		return
	}
	png, err := h.images.Image(c.Request.Context(), c.Query("title"))
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, "image/png", png)
}
