package ecommerce

import (
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
)

// shopifyConnection is a Relay-style connection as returned by the Storefront API
type shopifyConnection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
	PageInfo commerce.PageInfo `json:"pageInfo"`
}

// nodes flattens the edges/node wrappers
func (c shopifyConnection[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type shopifyProduct struct {
	ID               string                                     `json:"id"`
	Handle           string                                     `json:"handle"`
	AvailableForSale bool                                       `json:"availableForSale"`
	Title            string                                     `json:"title"`
	Description      string                                     `json:"description"`
	DescriptionHTML  string                                     `json:"descriptionHtml"`
	Options          []commerce.ProductOption                   `json:"options"`
	PriceRange       commerce.PriceRange                        `json:"priceRange"`
	Variants         shopifyConnection[commerce.ProductVariant] `json:"variants"`
	FeaturedImage    *commerce.Image                            `json:"featuredImage"`
	Images           shopifyConnection[commerce.Image]          `json:"images"`
	SEO              *commerce.SEO                              `json:"seo"`
	Tags             []string                                   `json:"tags"`
	Vendor           string                                     `json:"vendor"`
	ProductType      string                                     `json:"productType"`
	UpdatedAt        time.Time                                  `json:"updatedAt"`
}

type shopifyCartCost struct {
	SubtotalAmount commerce.Money  `json:"subtotalAmount"`
	TotalAmount    commerce.Money  `json:"totalAmount"`
	TotalTaxAmount *commerce.Money `json:"totalTaxAmount"`
}

type shopifyCart struct {
	ID            string                               `json:"id"`
	CheckoutURL   string                               `json:"checkoutUrl"`
	Cost          shopifyCartCost                      `json:"cost"`
	Lines         shopifyConnection[commerce.CartLine] `json:"lines"`
	TotalQuantity int                                  `json:"totalQuantity"`
}

type shopifyCollection struct {
	Handle      string        `json:"handle"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	SEO         *commerce.SEO `json:"seo"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type shopifyMenu struct {
	Items []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"items"`
}

type shopifyPage struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Handle      string        `json:"handle"`
	Body        string        `json:"body"`
	BodySummary string        `json:"bodySummary"`
	SEO         *commerce.SEO `json:"seo"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type shopifyArticle struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	ContentHTML string    `json:"contentHtml"`
	PublishedAt time.Time `json:"publishedAt"`
	Tags        []string  `json:"tags"`
	AuthorV2    *struct {
		Name string `json:"name"`
	} `json:"authorV2"`
	Image *commerce.Image `json:"image"`
	SEO   *commerce.SEO   `json:"seo"`
	Blog  struct {
		Handle string `json:"handle"`
	} `json:"blog"`
}

type shopifyBlog struct {
	Handle   string                            `json:"handle"`
	Title    string                            `json:"title"`
	SEO      *commerce.SEO                     `json:"seo"`
	Articles shopifyConnection[shopifyArticle] `json:"articles"`
}

type shopifyCustomer struct {
	ID               string                            `json:"id"`
	FirstName        string                            `json:"firstName"`
	LastName         string                            `json:"lastName"`
	Email            string                            `json:"email"`
	Phone            string                            `json:"phone"`
	AcceptsMarketing bool                              `json:"acceptsMarketing"`
	Orders           shopifyConnection[commerce.Order] `json:"orders"`
}

// shopifyUserError is an entry of userErrors / customerUserErrors
type shopifyUserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
