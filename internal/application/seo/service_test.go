package seo

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetCollections(ctx context.Context) ([]commerce.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Collection), args.Error(1)
}

func (m *mockCatalog) GetProducts(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SearchResult), args.Error(1)
}

type mockContent struct{ mock.Mock }

func (m *mockContent) GetPages(ctx context.Context) ([]commerce.Page, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Page), args.Error(1)
}

func (m *mockContent) GetBlogArticles(ctx context.Context, blog string, first int, after string) (*commerce.ArticlePage, error) {
	args := m.Called(ctx, blog, first, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ArticlePage), args.Error(1)
}

var testConfig = Config{
	BaseURL:           "https://shop.example.com/",
	SiteName:          "Acme Store",
	HiddenProductTag:  "nextjs-frontend-hidden",
	DefaultBlogHandle: "news",
}

func newService(t *testing.T) (*Service, *mockCatalog, *mockContent) {
	t.Helper()
	cat, con := new(mockCatalog), new(mockContent)
	t.Cleanup(func() {
		cat.AssertExpectations(t)
		con.AssertExpectations(t)
	})
	svc := NewService(testConfig, cat, con, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, cat, con
}

func money(amount string) commerce.Money {
	return commerce.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"}
}

func TestForProduct(t *testing.T) {
	svc, _, _ := newService(t)
	p := &commerce.Product{
		Handle:           "linen-shirt",
		Title:            "Linen Shirt",
		Description:      "A breezy shirt.",
		AvailableForSale: true,
		SEO:              commerce.SEO{Title: "Linen Shirt for Summer"},
		FeaturedImage:    &commerce.Image{URL: "https://cdn.example.com/shirt.png", Width: 800, Height: 800},
		PriceRange:       commerce.PriceRange{MinVariantPrice: money("20"), MaxVariantPrice: money("35.5")},
		Variants:         []commerce.ProductVariant{{ID: "v1"}, {ID: "v2"}},
	}

	md := svc.ForProduct(p)
	assert.Equal(t, "Linen Shirt for Summer | Acme Store", md.Title)
	assert.Equal(t, "A breezy shirt.", md.Description)
	assert.Equal(t, "https://shop.example.com/product/linen-shirt", md.Canonical)
	assert.True(t, md.Robots.Index)
	require.Len(t, md.OpenGraph.Images, 1)
	assert.Equal(t, "Linen Shirt", md.OpenGraph.Images[0].Alt)

	offers := md.JSONLD["offers"].(map[string]any)
	assert.Equal(t, "Product", md.JSONLD["@type"])
	assert.Equal(t, "AggregateOffer", offers["@type"])
	assert.Equal(t, availabilityInStock, offers["availability"])
	assert.Equal(t, "USD", offers["priceCurrency"])
	assert.Equal(t, "35.50", offers["highPrice"])
	assert.Equal(t, "20.00", offers["lowPrice"])

	p.AvailableForSale = false
	p.Tags = []string{"NextJS-Frontend-Hidden"}
	md = svc.ForProduct(p)
	assert.False(t, md.Robots.Index)
	assert.Equal(t, "noindex, nofollow", md.Robots.Content())
	assert.Equal(t, availabilityOutOfStock, md.JSONLD["offers"].(map[string]any)["availability"])
}

func TestForArticle(t *testing.T) {
	svc, _, _ := newService(t)
	a := &commerce.Article{
		Handle:      "linen-care",
		BlogHandle:  "news",
		Title:       "Caring for linen",
		Excerpt:     strings.Repeat("word ", 60),
		Author:      "Ana",
		PublishedAt: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
	}

	md := svc.ForArticle(a)
	assert.Equal(t, "article", md.OpenGraph.Type)
	assert.Equal(t, "https://shop.example.com/blog/news/linen-care", md.Canonical)
	assert.LessOrEqual(t, len([]rune(md.Description)), maxDescription)
	assert.True(t, strings.HasSuffix(md.Description, "…"))
	assert.Equal(t, "BlogPosting", md.JSONLD["@type"])
	assert.Equal(t, "2024-04-02T09:00:00Z", md.JSONLD["datePublished"])
	require.Len(t, md.OpenGraph.Images, 1)
	assert.Contains(t, md.OpenGraph.Images[0].URL, "/opengraph-image?title=Caring+for+linen")
}

func TestTitleAndSearch(t *testing.T) {
	svc, _, _ := newService(t)
	assert.Equal(t, "Acme Store", svc.Default().Title)
	assert.Equal(t, "About | Acme Store", svc.ForPage(&commerce.Page{Handle: "about", Title: "About"}).Title)
	assert.True(t, svc.ForSearch("").Robots.Index)
	assert.False(t, svc.ForSearch("shirt").Robots.Index)

	c := &commerce.Collection{Handle: "shirts", Title: "Shirts", Path: "/search/shirts"}
	md := svc.ForCollection(c)
	assert.Equal(t, "https://shop.example.com/search/shirts", md.Canonical)
	assert.Equal(t, "Shirts products", md.Description)
}

func TestSitemap(t *testing.T) {
	svc, cat, con := newService(t)
	updated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	cat.On("GetCollections", mock.Anything).Return([]commerce.Collection{
		{Handle: "", Title: "All", Path: "/search"},
		{Handle: "shirts", Title: "Shirts", Path: "/search/shirts", UpdatedAt: updated},
	}, nil).Once()
	cat.On("GetProducts", mock.Anything, catalog.SearchInput{Limit: catalog.MaxLimit}).Return(&catalog.SearchResult{
		Products: []commerce.Product{{Handle: "linen-shirt", UpdatedAt: updated}},
		PageInfo: commerce.PageInfo{HasNextPage: true, EndCursor: "c1"},
	}, nil).Once()
	cat.On("GetProducts", mock.Anything, catalog.SearchInput{After: "c1", Limit: catalog.MaxLimit}).Return(&catalog.SearchResult{
		Products: []commerce.Product{
			{Handle: "secret", Tags: []string{"nextjs-frontend-hidden"}},
			{Handle: "wool-hat"},
		},
	}, nil).Once()
	con.On("GetPages", mock.Anything).Return([]commerce.Page{{Handle: "about", UpdatedAt: updated}}, nil).Once()
	con.On("GetBlogArticles", mock.Anything, "news", 50, "").Return(nil, assert.AnError).Once()

	body, err := svc.Sitemap(context.Background())
	require.NoError(t, err)

	var set urlset
	require.NoError(t, xml.Unmarshal(body, &set))
	var locs []string
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://shop.example.com/",
		"https://shop.example.com/search",
		"https://shop.example.com/search/shirts",
		"https://shop.example.com/product/linen-shirt",
		"https://shop.example.com/product/wool-hat",
		"https://shop.example.com/about",
	}, locs)
	assert.Equal(t, "2024-03-01", set.URLs[2].LastMod)
	assert.Equal(t, "2024-05-01", set.URLs[4].LastMod)
	assert.True(t, strings.HasPrefix(string(body), "<?xml"))
}

func TestRobots(t *testing.T) {
	svc, _, _ := newService(t)
	robots := svc.Robots()
	assert.Contains(t, robots, "User-agent: *\nAllow: /\n")
	assert.Contains(t, robots, "Sitemap: https://shop.example.com/sitemap.xml\n")
	assert.Contains(t, robots, "Host: https://shop.example.com\n")
}
