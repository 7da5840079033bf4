package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ServiceConfig contains configuration for the catalog service
type ServiceConfig struct {
	CacheTTL             time.Duration
	RecommendationsLimit int
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheTTL:             15 * time.Minute,
		RecommendationsLimit: 4,
	}
}

// Service serves product, collection and menu reads through the cache
type Service struct {
	storefront commerce.Storefront
	cache      cache.Store
	events     event.Publisher
	metrics    *telemetry.StoreMetrics
	config     ServiceConfig
	logger     *zap.Logger
	shuffle    func(n int, swap func(i, j int))
}

// NewService creates a new catalog service. metrics may be nil.
func NewService(
	storefront commerce.Storefront,
	store cache.Store,
	events event.Publisher,
	metrics *telemetry.StoreMetrics,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultServiceConfig().CacheTTL
	}
	if config.RecommendationsLimit <= 0 {
		config.RecommendationsLimit = DefaultServiceConfig().RecommendationsLimit
	}
	return &Service{
		storefront: storefront,
		cache:      store,
		events:     events,
		metrics:    metrics,
		config:     config,
		logger:     logger,
		shuffle:    rand.Shuffle,
	}
}

// remember reads key through the cache, timing the loader as an upstream call.
// The first tag labels the cache lookup metric.
func remember[T any](ctx context.Context, s *Service, operation, key string, tags []string, load func(context.Context) (T, error)) (T, error) {
	v, hit, err := cache.Remember(ctx, s.cache, key, s.config.CacheTTL, tags, func(ctx context.Context) (T, error) {
		started := time.Now()
		v, err := load(ctx)
		s.metrics.ObserveUpstream(ctx, operation, started, err)
		return v, err
	})
	s.metrics.CacheLookup(ctx, tags[0], hit)
	return v, err
}

// GetProduct returns a product by handle
func (s *Service) GetProduct(ctx context.Context, handle string) (*commerce.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrProductHandle, handle)

	if strings.TrimSpace(handle) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Product handle is required")
	}

	product, err := remember(ctx, s, "getProduct", "product:"+handle, []string{cache.TagProducts},
		func(ctx context.Context) (*commerce.Product, error) {
			return s.storefront.GetProduct(ctx, handle)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to get product", zap.String("handle", handle), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if product == nil {
		return nil, shared.ErrNotFound.WithMessage("Product not found")
	}
	return product, nil
}

// GetProducts lists products matching the query in the requested order
func (s *Service) GetProducts(ctx context.Context, in SearchInput) (*SearchResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "search_products")
	defer span.End()

	sort := commerce.SortBySlug(in.Sort)
	q := commerce.ProductQuery{
		Query:   strings.TrimSpace(in.Query),
		SortKey: sort.SortKey,
		Reverse: sort.Reverse,
		First:   ClampLimit(in.Limit, DefaultListLimit),
		After:   in.After,
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSearchQuery, q.Query,
		telemetry.SpanAttrSortKey, q.SortKey,
	)

	page, err := remember(ctx, s, "getProducts", productsKey(q), []string{cache.TagProducts},
		func(ctx context.Context) (*commerce.ProductPage, error) {
			return s.storefront.GetProducts(ctx, q)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to search products", zap.String("query", q.Query), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	result := newSearchResult(page, sort)
	result.Query = q.Query
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(result.Products))
	return result, nil
}

// GetCollection returns a collection by handle
func (s *Service) GetCollection(ctx context.Context, handle string) (*commerce.Collection, error) {
	collection, err := remember(ctx, s, "getCollection", "collection:"+handle, []string{cache.TagCollections},
		func(ctx context.Context) (*commerce.Collection, error) {
			return s.storefront.GetCollection(ctx, handle)
		})
	if err != nil {
		s.logger.Error("Failed to get collection", zap.String("handle", handle), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if collection == nil {
		return nil, shared.ErrNotFound.WithMessage("Collection not found")
	}
	return collection, nil
}

// GetCollectionProducts lists a collection's products. A non-empty query
// narrows the page to products whose title, tags or vendor match it.
func (s *Service) GetCollectionProducts(ctx context.Context, handle string, in SearchInput) (*CollectionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "collection_products")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCollectionHandle, handle)

	collection, err := s.GetCollection(ctx, handle)
	if err != nil {
		return nil, err
	}

	sort := commerce.SortBySlug(in.Sort)
	q := commerce.ProductQuery{
		SortKey: sort.SortKey,
		Reverse: sort.Reverse,
		First:   ClampLimit(in.Limit, DefaultListLimit),
		After:   in.After,
	}
	page, err := remember(ctx, s, "getCollectionProducts", "collection-products:"+handle+":"+productsKey(q),
		[]string{cache.TagCollections, cache.TagProducts},
		func(ctx context.Context) (*commerce.ProductPage, error) {
			return s.storefront.GetCollectionProducts(ctx, handle, q)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to list collection products", zap.String("handle", handle), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if page == nil {
		return nil, shared.ErrNotFound.WithMessage("Collection not found")
	}

	result := newSearchResult(page, sort)
	if term := strings.TrimSpace(in.Query); term != "" {
		result.Products = commerce.FilterProducts(result.Products, term)
		result.Query = term
	}
	return &CollectionResult{Collection: *collection, SearchResult: *result}, nil
}

// GetCollections returns the visible collections, "All" first
func (s *Service) GetCollections(ctx context.Context) ([]commerce.Collection, error) {
	collections, err := remember(ctx, s, "getCollections", "collections", []string{cache.TagCollections},
		func(ctx context.Context) ([]commerce.Collection, error) {
			return s.storefront.GetCollections(ctx)
		})
	if err != nil {
		s.logger.Error("Failed to list collections", zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	return collections, nil
}

// GetRecommendations returns products related to productID. Failures yield
// an empty list.
func (s *Service) GetRecommendations(ctx context.Context, productID string) []commerce.Product {
	products, err := remember(ctx, s, "getProductRecommendations", "recommendations:"+productID, []string{cache.TagProducts},
		func(ctx context.Context) ([]commerce.Product, error) {
			return s.storefront.GetProductRecommendations(ctx, productID)
		})
	if err != nil {
		s.logger.Warn("Failed to get product recommendations", zap.String("product_id", productID), zap.Error(err))
		return []commerce.Product{}
	}
	if len(products) > s.config.RecommendationsLimit {
		products = products[:s.config.RecommendationsLimit]
	}
	if products == nil {
		products = []commerce.Product{}
	}
	return products
}

// GetMenu returns a navigation menu. Failures yield an empty menu.
func (s *Service) GetMenu(ctx context.Context, handle string) []commerce.MenuItem {
	items, err := remember(ctx, s, "getMenu", "menu:"+handle, []string{cache.TagContent},
		func(ctx context.Context) ([]commerce.MenuItem, error) {
			return s.storefront.GetMenu(ctx, handle)
		})
	if err != nil {
		s.logger.Warn("Failed to get menu", zap.String("handle", handle), zap.Error(err))
		return []commerce.MenuItem{}
	}
	if items == nil {
		items = []commerce.MenuItem{}
	}
	return items
}

// BestSellers returns the best selling products
func (s *Service) BestSellers(ctx context.Context, limit int) ([]commerce.Product, error) {
	result, err := s.GetProducts(ctx, SearchInput{
		Sort:  "trending-desc",
		Limit: ClampLimit(limit, DefaultBestSellerLimit),
	})
	if err != nil {
		return nil, err
	}
	return result.Products, nil
}

// RandomProducts returns up to limit products sampled from the first page
// of the catalog.
func (s *Service) RandomProducts(ctx context.Context, limit int) ([]commerce.Product, error) {
	limit = ClampLimit(limit, DefaultRandomLimit)
	result, err := s.GetProducts(ctx, SearchInput{Limit: randomSampleSize})
	if err != nil {
		return nil, err
	}

	products := append([]commerce.Product(nil), result.Products...)
	s.shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// Suggestions returns products and collections matching term for
// search-as-you-type. An empty term yields empty suggestions.
func (s *Service) Suggestions(ctx context.Context, term string, limit int) (*Suggestions, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "suggestions")
	defer span.End()

	term = strings.TrimSpace(term)
	limit = ClampLimit(limit, DefaultSuggestionLimit)
	out := &Suggestions{Query: term, Products: []commerce.Product{}, Collections: []commerce.Collection{}}
	if term == "" {
		return out, nil
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSearchQuery, term)

	result, err := s.GetProducts(ctx, SearchInput{Query: term, Limit: limit * 2})
	if err != nil {
		return nil, err
	}
	products := commerce.FilterProducts(result.Products, term)
	if len(products) > limit {
		products = products[:limit]
	}
	out.Products = products

	collections, err := s.GetCollections(ctx)
	if err != nil {
		s.logger.Warn("Collections unavailable for suggestions", zap.Error(err))
		return out, nil
	}
	needle := strings.ToLower(term)
	for _, c := range collections {
		if c.Handle == "" || !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		out.Collections = append(out.Collections, c)
		if len(out.Collections) == limit {
			break
		}
	}
	return out, nil
}

// TagsForTopic maps a platform webhook topic to the cache tags it invalidates
func TagsForTopic(topic string) []string {
	switch {
	case strings.HasPrefix(topic, "collections/"):
		return []string{cache.TagCollections}
	case strings.HasPrefix(topic, "products/"):
		return []string{cache.TagProducts}
	default:
		return nil
	}
}

// RevalidateResult reports what a webhook invalidated
type RevalidateResult struct {
	Topic   string   `json:"topic"`
	Tags    []string `json:"tags"`
	Evicted int      `json:"evicted"`
	Now     int64    `json:"now"`
}

// Invalidate drops the cache entries affected by a webhook topic. Unknown
// topics are a no-op.
func (s *Service) Invalidate(ctx context.Context, topic string) (*RevalidateResult, error) {
	result := &RevalidateResult{Topic: topic, Tags: TagsForTopic(topic), Now: time.Now().UnixMilli()}
	if len(result.Tags) == 0 {
		s.logger.Debug("Ignoring webhook topic", zap.String("topic", topic))
		result.Tags = []string{}
		return result, nil
	}

	n, err := s.cache.InvalidateTags(ctx, result.Tags...)
	if err != nil {
		s.logger.Error("Failed to invalidate cache", zap.Strings("tags", result.Tags), zap.Error(err))
		return nil, shared.ErrUpstream.WithMessage("Failed to revalidate cache").Wrap(err)
	}
	result.Evicted = n

	s.logger.Info("Cache revalidated",
		zap.String("topic", topic),
		zap.Strings("tags", result.Tags),
		zap.Int("evicted", n))
	if err := s.events.Publish(ctx, event.NewFromContext(ctx, event.TypeCacheRevalid, topic, map[string]string{
		"tags":    strings.Join(result.Tags, ","),
		"evicted": fmt.Sprint(n),
	})); err != nil {
		s.logger.Warn("Failed to publish revalidation event", zap.Error(err))
	}
	return result, nil
}

// Warmup loads the collection list and best sellers into the cache
func (s *Service) Warmup(ctx context.Context) error {
	if _, err := s.GetCollections(ctx); err != nil {
		return err
	}
	if _, err := s.BestSellers(ctx, DefaultBestSellerLimit); err != nil {
		return err
	}
	return nil
}

func productsKey(q commerce.ProductQuery) string {
	return fmt.Sprintf("products:q=%s:sort=%s:rev=%t:first=%d:after=%s", q.Query, q.SortKey, q.Reverse, q.First, q.After)
}

func newSearchResult(page *commerce.ProductPage, sort commerce.SortOption) *SearchResult {
	result := &SearchResult{Products: []commerce.Product{}, Sort: sort}
	if page == nil {
		return result
	}
	if page.Products != nil {
		result.Products = page.Products
	}
	result.PageInfo = page.PageInfo
	return result
}
