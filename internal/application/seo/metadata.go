// Package seo builds page metadata (titles, canonical URLs, Open Graph and
// JSON-LD) and the crawler documents sitemap.xml and robots.txt.
package seo

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/commerce"
)

// maxDescription is the length descriptions are cut to
const maxDescription = 160

// Robots is the robots meta directive of a page
type Robots struct {
	Index  bool `json:"index"`
	Follow bool `json:"follow"`
}

// Content renders the directive for a <meta name="robots"> tag
func (r Robots) Content() string {
	index, follow := "noindex", "nofollow"
	if r.Index {
		index = "index"
	}
	if r.Follow {
		follow = "follow"
	}
	return index + ", " + follow
}

// OGImage is an Open Graph image reference
type OGImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OpenGraph is the og:* metadata of a page
type OpenGraph struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	SiteName    string    `json:"site_name"`
	Images      []OGImage `json:"images,omitempty"`
}

// Metadata is everything a page puts in its <head>
type Metadata struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Canonical   string         `json:"canonical"`
	Robots      Robots         `json:"robots"`
	OpenGraph   OpenGraph      `json:"open_graph"`
	JSONLD      map[string]any `json:"json_ld,omitempty"`
}

// Config holds the site identity used in metadata
type Config struct {
	BaseURL           string
	SiteName          string
	HiddenProductTag  string
	DefaultBlogHandle string
}

// Default is the metadata of pages without their own, such as the home page
func (s *Service) Default() Metadata {
	return s.build("/", s.cfg.SiteName, "High-performance ecommerce store.", "website", nil)
}

// ForProduct builds product page metadata with a Product JSON-LD document.
// Products carrying the hidden tag are marked noindex.
func (s *Service) ForProduct(p *commerce.Product) Metadata {
	title := firstNonEmpty(p.SEO.Title, p.Title)
	description := firstNonEmpty(p.SEO.Description, p.Description)

	var images []OGImage
	if p.FeaturedImage != nil && p.FeaturedImage.URL != "" {
		images = append(images, OGImage{
			URL:    p.FeaturedImage.URL,
			Alt:    firstNonEmpty(p.FeaturedImage.AltText, p.Title),
			Width:  p.FeaturedImage.Width,
			Height: p.FeaturedImage.Height,
		})
	}

	md := s.build(p.Path(), title, description, "website", images)
	if s.cfg.HiddenProductTag != "" && p.HasTag(s.cfg.HiddenProductTag) {
		md.Robots = Robots{Index: false, Follow: false}
	}
	md.JSONLD = productJSONLD(p, md.Canonical)
	return md
}

// ForCollection builds collection page metadata
func (s *Service) ForCollection(c *commerce.Collection) Metadata {
	title := firstNonEmpty(c.SEO.Title, c.Title)
	description := firstNonEmpty(c.SEO.Description, c.Description, c.Title+" products")
	return s.build(c.Path, title, description, "website", nil)
}

// ForPage builds CMS page metadata
func (s *Service) ForPage(p *commerce.Page) Metadata {
	title := firstNonEmpty(p.SEO.Title, p.Title)
	description := firstNonEmpty(p.SEO.Description, p.BodySummary)
	return s.build("/"+p.Handle, title, description, "article", nil)
}

// ForArticle builds article metadata with a BlogPosting JSON-LD document
func (s *Service) ForArticle(a *commerce.Article) Metadata {
	title := firstNonEmpty(a.SEO.Title, a.Title)
	description := firstNonEmpty(a.SEO.Description, a.Excerpt)

	var images []OGImage
	if a.Image != nil && a.Image.URL != "" {
		images = append(images, OGImage{URL: a.Image.URL, Alt: firstNonEmpty(a.Image.AltText, a.Title)})
	}

	md := s.build(a.Path(), title, description, "article", images)
	md.JSONLD = articleJSONLD(a, md.Canonical, s.cfg.SiteName)
	return md
}

// ForBlog builds metadata for a blog's article listing
func (s *Service) ForBlog(b *commerce.Blog) Metadata {
	title := firstNonEmpty(b.SEO.Title, b.Title)
	return s.build("/blog/"+b.Handle, title, b.SEO.Description, "website", nil)
}

// ForSearch builds search page metadata. Result pages for a query are not
// indexed.
func (s *Service) ForSearch(query string) Metadata {
	md := s.build("/search", "Search", "Search for products in the store.", "website", nil)
	if strings.TrimSpace(query) != "" {
		md.Robots.Index = false
	}
	return md
}

func (s *Service) build(path, title, description, ogType string, images []OGImage) Metadata {
	description = truncate(description, maxDescription)
	canonical := s.URL(path)
	full := s.Title(title)
	if len(images) == 0 {
		images = []OGImage{{URL: s.URL("/opengraph-image?title=" + queryEscape(title)), Width: 1200, Height: 630}}
	}
	return Metadata{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		Robots:      Robots{Index: true, Follow: true},
		OpenGraph: OpenGraph{
			Type:        ogType,
			Title:       full,
			Description: description,
			URL:         canonical,
			SiteName:    s.cfg.SiteName,
			Images:      images,
		},
	}
}

// Title applies the site title template
func (s *Service) Title(title string) string {
	if title == "" || title == s.cfg.SiteName {
		return s.cfg.SiteName
	}
	if s.cfg.SiteName == "" {
		return title
	}
	return title + " | " + s.cfg.SiteName
}

// URL resolves a storefront path against the public base URL
func (s *Service) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.cfg.BaseURL + path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	cut := strings.TrimRight(string(r[:max-1]), " ")
	return cut + "…"
}
