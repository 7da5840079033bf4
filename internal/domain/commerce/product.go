package commerce

import (
	"strings"
	"time"
)

// Image is a platform-hosted image
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SEO holds the merchant-provided search metadata of a resource
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProductOption is a configurable dimension such as size or color
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// SelectedOption is one chosen value of a ProductOption
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductVariant is a purchasable combination of option values
type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Price            Money            `json:"price"`
}

// PriceRange spans the cheapest and most expensive variant
type PriceRange struct {
	MaxVariantPrice Money `json:"maxVariantPrice"`
	MinVariantPrice Money `json:"minVariantPrice"`
}

// Product is a catalog entry with its variants
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	AvailableForSale bool             `json:"availableForSale"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml"`
	Options          []ProductOption  `json:"options"`
	PriceRange       PriceRange       `json:"priceRange"`
	Variants         []ProductVariant `json:"variants"`
	FeaturedImage    *Image           `json:"featuredImage,omitempty"`
	Images           []Image          `json:"images"`
	SEO              SEO              `json:"seo"`
	Tags             []string         `json:"tags"`
	Vendor           string           `json:"vendor"`
	ProductType      string           `json:"productType"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// HasTag reports whether the product carries tag (case-insensitive)
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Path returns the storefront URL path of the product page
func (p *Product) Path() string {
	return "/product/" + p.Handle
}

// VariantByID finds a variant by its platform ID
func (p *Product) VariantByID(id string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// Collection groups products under a handle
type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         SEO       `json:"seo"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Path        string    `json:"path"`
}

// PageInfo is the cursor state of a paginated connection
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products []Product `json:"products"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// ProductQuery selects and orders a product listing
type ProductQuery struct {
	Query   string
	SortKey string
	Reverse bool
	First   int
	After   string
}
