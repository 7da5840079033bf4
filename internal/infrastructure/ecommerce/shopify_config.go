package ecommerce

import (
	"errors"
	"strings"
	"time"
)

// ShopifyConfig holds configuration for the Shopify Storefront API
type ShopifyConfig struct {
	// StoreDomain is the shop's domain, e.g. "acme.myshopify.com"
	StoreDomain string
	// StorefrontToken is the public Storefront API access token
	StorefrontToken string
	// APIVersion is the dated API version, e.g. "2024-04"
	APIVersion string
	// Endpoint overrides the URL derived from StoreDomain and APIVersion
	Endpoint string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// HiddenProductTag marks products that must never be listed
	HiddenProductTag string
	// DefaultCurrencyCode is used when the platform omits a currency
	DefaultCurrencyCode string
}

const (
	// DefaultShopifyAPIVersion is the Storefront API version queries are written against
	DefaultShopifyAPIVersion = "2024-04"
	// DefaultHiddenProductTag hides a product from every listing
	DefaultHiddenProductTag = "nextjs-frontend-hidden"
	// HiddenCollectionPrefix hides collections from the collection menu
	HiddenCollectionPrefix = "hidden"
)

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingDomain = errors.New("shopify: store domain is required")
	ErrShopifyConfigMissingToken  = errors.New("shopify: storefront access token is required")
)

// Validate checks required fields and fills defaults
func (c *ShopifyConfig) Validate() error {
	if c.StoreDomain == "" && c.Endpoint == "" {
		return ErrShopifyConfigMissingDomain
	}
	if c.StorefrontToken == "" {
		return ErrShopifyConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultShopifyAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.HiddenProductTag == "" {
		c.HiddenProductTag = DefaultHiddenProductTag
	}
	if c.DefaultCurrencyCode == "" {
		c.DefaultCurrencyCode = "USD"
	}
	return nil
}

// GraphQLEndpoint returns the Storefront API URL
func (c *ShopifyConfig) GraphQLEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	domain := strings.TrimPrefix(strings.TrimPrefix(c.StoreDomain, "https://"), "http://")
	domain = strings.TrimSuffix(domain, "/")
	return "https://" + domain + "/api/" + c.APIVersion + "/graphql.json"
}

// ShopDomain returns the bare domain, used to relativize menu URLs
func (c *ShopifyConfig) ShopDomain() string {
	domain := strings.TrimPrefix(strings.TrimPrefix(c.StoreDomain, "https://"), "http://")
	return strings.TrimSuffix(domain, "/")
}
