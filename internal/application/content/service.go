// Package content serves blog articles and merchant pages.
package content

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	// DefaultArticlesPerPage is the blog listing page size
	DefaultArticlesPerPage = 12
	// MaxArticlesPerPage bounds a blog listing page
	MaxArticlesPerPage = 50
	// relatedCandidates is how many recent articles are scored for related posts
	relatedCandidates = 50
)

// ArticleView is an article with the posts related to it
type ArticleView struct {
	Article commerce.Article   `json:"article"`
	Blog    commerce.Blog      `json:"blog"`
	Related []commerce.Article `json:"related"`
}

// Service reads blog and page content through the cache
type Service struct {
	storefront commerce.Storefront
	cache      cache.Store
	metrics    *telemetry.StoreMetrics
	ttl        time.Duration
	logger     *zap.Logger
}

// NewService creates a new content service
func NewService(storefront commerce.Storefront, store cache.Store, metrics *telemetry.StoreMetrics, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		storefront: storefront,
		cache:      store,
		metrics:    metrics,
		ttl:        ttl,
		logger:     logger,
	}
}

func load[T any](ctx context.Context, s *Service, operation, key string, fn func(context.Context) (T, error)) (T, error) {
	v, hit, err := cache.Remember(ctx, s.cache, key, s.ttl, []string{cache.TagContent}, func(ctx context.Context) (T, error) {
		started := time.Now()
		v, err := fn(ctx)
		s.metrics.ObserveUpstream(ctx, operation, started, err)
		return v, err
	})
	s.metrics.CacheLookup(ctx, cache.TagContent, hit)
	return v, err
}

// GetBlogArticles returns one page of a blog's articles, newest first
func (s *Service) GetBlogArticles(ctx context.Context, blogHandle string, first int, after string) (*commerce.ArticlePage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "blog_articles")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrBlogHandle, blogHandle)

	if strings.TrimSpace(blogHandle) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Blog handle is required")
	}
	switch {
	case first <= 0:
		first = DefaultArticlesPerPage
	case first > MaxArticlesPerPage:
		first = MaxArticlesPerPage
	}

	key := "blog:" + blogHandle + ":" + after + ":" + strconv.Itoa(first)
	page, err := load(ctx, s, "getBlogArticles", key, func(ctx context.Context) (*commerce.ArticlePage, error) {
		return s.storefront.GetBlogArticles(ctx, blogHandle, first, after)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to get blog articles", zap.String("blog", blogHandle), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if page == nil {
		return nil, shared.ErrNotFound.WithMessage("Blog not found")
	}
	if page.Articles == nil {
		page.Articles = []commerce.Article{}
	}
	return page, nil
}

// GetArticle returns an article together with its related posts. Related
// posts are best effort and empty when the blog listing fails.
func (s *Service) GetArticle(ctx context.Context, blogHandle, articleHandle string) (*ArticleView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "get_article")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBlogHandle, blogHandle,
		telemetry.SpanAttrArticleHandle, articleHandle,
	)

	article, err := load(ctx, s, "getArticle", "article:"+blogHandle+"/"+articleHandle,
		func(ctx context.Context) (*commerce.Article, error) {
			return s.storefront.GetArticle(ctx, blogHandle, articleHandle)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to get article",
			zap.String("blog", blogHandle),
			zap.String("article", articleHandle),
			zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if article == nil {
		return nil, shared.ErrNotFound.WithMessage("Article not found")
	}

	view := &ArticleView{Article: *article, Blog: commerce.Blog{Handle: blogHandle}, Related: []commerce.Article{}}
	page, err := s.GetBlogArticles(ctx, blogHandle, relatedCandidates, "")
	if err != nil {
		s.logger.Warn("Related articles unavailable", zap.String("blog", blogHandle), zap.Error(err))
		return view, nil
	}
	view.Blog = page.Blog
	view.Related = RelatedArticles(article, page.Articles, commerce.DefaultRelatedLimit)
	return view, nil
}

// RelatedArticles ranks candidates by similarity to current
func RelatedArticles(current *commerce.Article, candidates []commerce.Article, limit int) []commerce.Article {
	return commerce.RelatedArticles(current, candidates, limit)
}

// GetPage returns a merchant page by handle
func (s *Service) GetPage(ctx context.Context, handle string) (*commerce.Page, error) {
	page, err := load(ctx, s, "getPage", "page:"+handle, func(ctx context.Context) (*commerce.Page, error) {
		return s.storefront.GetPage(ctx, handle)
	})
	if err != nil {
		s.logger.Error("Failed to get page", zap.String("handle", handle), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if page == nil {
		return nil, shared.ErrNotFound.WithMessage("Page not found")
	}
	return page, nil
}

// GetPages returns every merchant page
func (s *Service) GetPages(ctx context.Context) ([]commerce.Page, error) {
	pages, err := load(ctx, s, "getPages", "pages", func(ctx context.Context) ([]commerce.Page, error) {
		return s.storefront.GetPages(ctx)
	})
	if err != nil {
		s.logger.Error("Failed to list pages", zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	return pages, nil
}
