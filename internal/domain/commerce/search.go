package commerce

import "strings"

// SortOption is one entry of the search page's sort menu
type SortOption struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	SortKey string `json:"sortKey"`
	Reverse bool   `json:"reverse"`
}

// DefaultSort orders results by relevance
var DefaultSort = SortOption{Title: "Relevance", Slug: "", SortKey: "RELEVANCE", Reverse: false}

// SortOptions lists the sort menu in display order
var SortOptions = []SortOption{
	DefaultSort,
	{Title: "Trending", Slug: "trending-desc", SortKey: "BEST_SELLING", Reverse: false},
	{Title: "Latest arrivals", Slug: "latest-desc", SortKey: "CREATED_AT", Reverse: true},
	{Title: "Price: Low to high", Slug: "price-asc", SortKey: "PRICE", Reverse: false},
	{Title: "Price: High to low", Slug: "price-desc", SortKey: "PRICE", Reverse: true},
}

// SortBySlug resolves a sort slug, falling back to DefaultSort
func SortBySlug(slug string) SortOption {
	for _, o := range SortOptions {
		if o.Slug == slug {
			return o
		}
	}
	return DefaultSort
}

// MatchesTerm reports whether the product's title, tags or vendor contain
// term, ignoring case. An empty term matches everything.
func (p *Product) MatchesTerm(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Vendor), term) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// FilterProducts keeps the products matching term, preserving order
func FilterProducts(products []Product, term string) []Product {
	if strings.TrimSpace(term) == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for i := range products {
		if products[i].MatchesTerm(term) {
			out = append(out, products[i])
		}
	}
	return out
}

// WithoutHidden drops products carrying the hidden tag
func WithoutHidden(products []Product, hiddenTag string) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		if !products[i].HasTag(hiddenTag) {
			out = append(out, products[i])
		}
	}
	return out
}
