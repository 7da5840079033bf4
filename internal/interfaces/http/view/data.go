package view

import (
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/content"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/application/seo"
	"github.com/storefront/backend/internal/domain/commerce"
)

// Page is the data every template receives. Data carries the page-specific
// struct below.
type Page struct {
	Meta       seo.Metadata
	SiteName   string
	Company    string
	Menu       []commerce.MenuItem
	FooterMenu []commerce.MenuItem
	SignedIn   bool
	CartCount  int
	RequestID  string
	Data       any
}

// HomeData is the home page
type HomeData struct {
	Featured []commerce.Product
	Carousel []commerce.Product
}

// SearchData is the search page, optionally scoped to a collection
type SearchData struct {
	Result      *catalog.SearchResult
	Collection  *commerce.Collection
	Collections []commerce.Collection
	SortOptions []commerce.SortOption
	BasePath    string
}

// ProductData is the product detail page
type ProductData struct {
	Product         *commerce.Product
	Recommendations []commerce.Product
	Added           bool
}

// BlogData is a blog's article list
type BlogData struct {
	Page *commerce.ArticlePage
}

// ArticleData is a single article with related posts
type ArticleData struct {
	View *content.ArticleView
}

// CartData is the cart page. Cart is nil when the shopper has none.
type CartData struct {
	Cart  *commerce.Cart
	Error string
}

// FormData backs the login and register forms
type FormData struct {
	Values       map[string]string
	Errors       map[string]string
	Message      string
	OAuthEnabled bool
	OAuthURL     string
}

// AccountData is the signed-in customer's account page
type AccountData struct {
	Account *customer.AccountResponse
}

// CMSData is a merchant-authored page
type CMSData struct {
	Page *commerce.Page
}

// ErrorData is the not-found and error page
type ErrorData struct {
	Status  int
	Title   string
	Message string
}
