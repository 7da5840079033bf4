package scheduler

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Job names
const (
	JobSitemap = "sitemap"
	JobWarmup  = "warmup"
)

// Object keys written by the sitemap job
const (
	SitemapKey = "sitemap.xml"
	RobotsKey  = "robots.txt"
)

// SitemapSource renders crawler files
type SitemapSource interface {
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() string
}

// Warmer pre-loads hot catalog data
type Warmer interface {
	Warmup(ctx context.Context) error
}

// SitemapJob publishes sitemap.xml and robots.txt to the object store
func SitemapJob(schedule string, source SitemapSource, store storage.ObjectStore, logger *zap.Logger) Job {
	return Job{
		Name:     JobSitemap,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			sitemap, err := source.Sitemap(ctx)
			if err != nil {
				return err
			}
			if err := store.Put(ctx, SitemapKey, "application/xml; charset=utf-8", sitemap); err != nil {
				return fmt.Errorf("publish sitemap: %w", err)
			}
			if err := store.Put(ctx, RobotsKey, "text/plain; charset=utf-8", []byte(source.Robots())); err != nil {
				return fmt.Errorf("publish robots: %w", err)
			}
			logger.Info("Sitemap published", zap.Int("bytes", len(sitemap)))
			return nil
		},
	}
}

// WarmupJob refreshes the catalog cache
func WarmupJob(schedule string, warmer Warmer) Job {
	return Job{
		Name:     JobWarmup,
		Schedule: schedule,
		Run:      warmer.Warmup,
	}
}
