package seo

import (
	"net/url"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
)

const (
	availabilityInStock    = "https://schema.org/InStock"
	availabilityOutOfStock = "https://schema.org/OutOfStock"
)

func productJSONLD(p *commerce.Product, canonical string) map[string]any {
	availability := availabilityOutOfStock
	if p.AvailableForSale {
		availability = availabilityInStock
	}
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        p.Title,
		"description": p.Description,
		"url":         canonical,
		"offers": map[string]any{
			"@type":         "AggregateOffer",
			"availability":  availability,
			"priceCurrency": p.PriceRange.MinVariantPrice.CurrencyCode,
			"highPrice":     p.PriceRange.MaxVariantPrice.Amount.StringFixed(2),
			"lowPrice":      p.PriceRange.MinVariantPrice.Amount.StringFixed(2),
			"offerCount":    len(p.Variants),
		},
	}
	if p.FeaturedImage != nil && p.FeaturedImage.URL != "" {
		doc["image"] = p.FeaturedImage.URL
	}
	if p.Vendor != "" {
		doc["brand"] = map[string]any{"@type": "Brand", "name": p.Vendor}
	}
	return doc
}

func articleJSONLD(a *commerce.Article, canonical, siteName string) map[string]any {
	doc := map[string]any{
		"@context":         "https://schema.org",
		"@type":            "BlogPosting",
		"headline":         a.Title,
		"description":      a.Excerpt,
		"mainEntityOfPage": canonical,
		"publisher":        map[string]any{"@type": "Organization", "name": siteName},
	}
	if !a.PublishedAt.IsZero() {
		doc["datePublished"] = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	if a.Author != "" {
		doc["author"] = map[string]any{"@type": "Person", "name": a.Author}
	}
	if a.Image != nil && a.Image.URL != "" {
		doc["image"] = a.Image.URL
	}
	if len(a.Tags) > 0 {
		doc["keywords"] = a.Tags
	}
	return doc
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
