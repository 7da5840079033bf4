package catalog

import "github.com/storefront/backend/internal/domain/commerce"

// Listing limits
const (
	DefaultListLimit       = 24
	DefaultBestSellerLimit = 8
	DefaultRandomLimit     = 8
	DefaultSuggestionLimit = 6
	MaxLimit               = 100

	// randomSampleSize is how many products RandomProducts draws from
	randomSampleSize = 100
)

// SearchInput selects a product listing
type SearchInput struct {
	Query string `form:"q" binding:"max=200"`
	Sort  string `form:"sort" binding:"max=50"`
	After string `form:"after" binding:"max=500"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SearchResult is one page of a listing with the sort that produced it
type SearchResult struct {
	Products []commerce.Product  `json:"products"`
	PageInfo commerce.PageInfo   `json:"pageInfo"`
	Sort     commerce.SortOption `json:"sort"`
	Query    string              `json:"query,omitempty"`
}

// CollectionResult is a collection with one page of its products
type CollectionResult struct {
	Collection commerce.Collection `json:"collection"`
	SearchResult
}

// Suggestions are the search-as-you-type matches for a term
type Suggestions struct {
	Query       string                `json:"query"`
	Products    []commerce.Product    `json:"products"`
	Collections []commerce.Collection `json:"collections"`
}

// ClampLimit bounds limit to 1..MaxLimit, substituting def for non-positive values
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
