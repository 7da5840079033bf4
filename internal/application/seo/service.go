package seo

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/commerce"
	"go.uber.org/zap"
)

// maxSitemapPages bounds how many listing pages the sitemap walks per source
const maxSitemapPages = 50

// CatalogSource lists the products and collections that go in the sitemap
type CatalogSource interface {
	GetCollections(ctx context.Context) ([]commerce.Collection, error)
	GetProducts(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error)
}

// ContentSource lists the pages and articles that go in the sitemap
type ContentSource interface {
	GetPages(ctx context.Context) ([]commerce.Page, error)
	GetBlogArticles(ctx context.Context, blogHandle string, first int, after string) (*commerce.ArticlePage, error)
}

// Service builds metadata and crawler documents
type Service struct {
	cfg     Config
	catalog CatalogSource
	content ContentSource
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new SEO service. The base URL must not end in a slash.
func NewService(cfg Config, catalogSource CatalogSource, contentSource ContentSource, logger *zap.Logger) *Service {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{
		cfg:     cfg,
		catalog: catalogSource,
		content: contentSource,
		logger:  logger,
		now:     time.Now,
	}
}

// SitemapURL is one <url> entry
type SitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntries collects every indexable URL. A source that fails is
// logged and skipped so the sitemap always renders.
func (s *Service) SitemapEntries(ctx context.Context) []SitemapURL {
	today := s.now().UTC().Format(time.DateOnly)
	entries := []SitemapURL{
		{Loc: s.URL("/"), LastMod: today},
		{Loc: s.URL("/search"), LastMod: today},
	}

	collections, err := s.catalog.GetCollections(ctx)
	if err != nil {
		s.logger.Warn("Sitemap: failed to list collections", zap.Error(err))
	}
	for _, c := range collections {
		if c.Path == "" || c.Path == "/search" {
			continue
		}
		entries = append(entries, SitemapURL{Loc: s.URL(c.Path), LastMod: lastMod(c.UpdatedAt, today)})
	}

	entries = append(entries, s.productEntries(ctx, today)...)

	pages, err := s.content.GetPages(ctx)
	if err != nil {
		s.logger.Warn("Sitemap: failed to list pages", zap.Error(err))
	}
	for _, p := range pages {
		entries = append(entries, SitemapURL{Loc: s.URL("/" + p.Handle), LastMod: lastMod(p.UpdatedAt, today)})
	}

	if s.cfg.DefaultBlogHandle != "" {
		entries = append(entries, s.articleEntries(ctx, s.cfg.DefaultBlogHandle, today)...)
	}
	return entries
}

func (s *Service) productEntries(ctx context.Context, today string) []SitemapURL {
	var entries []SitemapURL
	after := ""
	for page := 0; page < maxSitemapPages; page++ {
		result, err := s.catalog.GetProducts(ctx, catalog.SearchInput{After: after, Limit: catalog.MaxLimit})
		if err != nil {
			s.logger.Warn("Sitemap: failed to list products", zap.Int("page", page), zap.Error(err))
			break
		}
		for i := range result.Products {
			p := &result.Products[i]
			if s.cfg.HiddenProductTag != "" && p.HasTag(s.cfg.HiddenProductTag) {
				continue
			}
			entries = append(entries, SitemapURL{Loc: s.URL(p.Path()), LastMod: lastMod(p.UpdatedAt, today)})
		}
		if !result.PageInfo.HasNextPage || result.PageInfo.EndCursor == "" {
			break
		}
		after = result.PageInfo.EndCursor
	}
	return entries
}

func (s *Service) articleEntries(ctx context.Context, blog, today string) []SitemapURL {
	var entries []SitemapURL
	after := ""
	for page := 0; page < maxSitemapPages; page++ {
		result, err := s.content.GetBlogArticles(ctx, blog, 50, after)
		if err != nil {
			s.logger.Warn("Sitemap: failed to list articles", zap.String("blog", blog), zap.Error(err))
			break
		}
		if page == 0 {
			entries = append(entries, SitemapURL{Loc: s.URL("/blog/" + blog), LastMod: today})
		}
		for i := range result.Articles {
			a := &result.Articles[i]
			entries = append(entries, SitemapURL{Loc: s.URL(a.Path()), LastMod: lastMod(a.PublishedAt, today)})
		}
		if !result.PageInfo.HasNextPage || result.PageInfo.EndCursor == "" {
			break
		}
		after = result.PageInfo.EndCursor
	}
	return entries
}

// Sitemap renders sitemap.xml
func (s *Service) Sitemap(ctx context.Context) ([]byte, error) {
	set := urlset{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  s.SitemapEntries(ctx),
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders robots.txt
func (s *Service) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", s.URL("/sitemap.xml"))
	fmt.Fprintf(&b, "Host: %s\n", s.cfg.BaseURL)
	return b.String()
}

func lastMod(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.UTC().Format(time.DateOnly)
}
