package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from the Storefront API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// errNoData marks a query whose data path resolved to null
var errNoData = errors.New("shopify: no data")

// GraphQLError is returned when the response carries top-level errors
type GraphQLError struct {
	Messages []string
	Code     string
}

func (e *GraphQLError) Error() string {
	return "shopify: " + strings.Join(e.Messages, "; ")
}

// Unwrap lets callers match throttling as unavailability
func (e *GraphQLError) Unwrap() error {
	if e.Code == "THROTTLED" {
		return commerce.ErrPlatformUnavailable
	}
	return commerce.ErrPlatformRequestFailed
}

// UserError is returned when a mutation rejects its input
type UserError struct {
	Code    string
	Field   string
	Message string
}

func (e *UserError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("shopify: %s: %s", e.Field, e.Message)
	}
	return "shopify: " + e.Message
}

// Unwrap reports the rejection as a user error, and unknown credentials
// additionally as ErrInvalidCredentials.
func (e *UserError) Unwrap() []error {
	if e.Code == "UNIDENTIFIED_CUSTOMER" {
		return []error{commerce.ErrPlatformUserError, commerce.ErrInvalidCredentials}
	}
	return []error{commerce.ErrPlatformUserError}
}

// UserMessage returns the message meant for the shopper
func (e *UserError) UserMessage() string {
	return e.Message
}

// ShopifyAdapter implements the commerce ports against the Shopify Storefront GraphQL API
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
	endpoint   string
	now        func() time.Time
}

// ShopifyOption configures a ShopifyAdapter
type ShopifyOption func(*ShopifyAdapter)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) ShopifyOption {
	return func(a *ShopifyAdapter) {
		a.httpClient = client
	}
}

// NewShopifyAdapter creates a Storefront API client
func NewShopifyAdapter(config *ShopifyConfig, opts ...ShopifyOption) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := &ShopifyAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		endpoint:   config.GraphQLEndpoint(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// query runs a GraphQL operation and decodes data.<dataPath> into out.
// It returns errNoData when that path is missing or null.
func (a *ShopifyAdapter) query(ctx context.Context, operation, query string, variables map[string]any, dataPath string, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "shopify."+operation,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("graphql.operation.name", operation),
	)
	defer span.End()

	body, err := a.doRequest(ctx, graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if gqlErr := parseGraphQLErrors(body); gqlErr != nil {
		span.RecordError(gqlErr)
		span.SetStatus(codes.Error, gqlErr.Error())
		return gqlErr
	}

	data := gjson.GetBytes(body, "data."+dataPath)
	if !data.Exists() || data.Type == gjson.Null {
		span.SetAttributes(attribute.Bool("shopify.empty", true))
		return errNoData
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return fmt.Errorf("%w: %v", commerce.ErrPlatformInvalidResponse, err)
	}
	return nil
}

// mutate runs a mutation and fails with *UserError when the payload reports
// userErrors or customerUserErrors.
func (a *ShopifyAdapter) mutate(ctx context.Context, operation, query string, variables map[string]any, payloadPath, resultPath string, out any) error {
	var raw json.RawMessage
	if err := a.query(ctx, operation, query, variables, payloadPath, &raw); err != nil {
		if errors.Is(err, errNoData) {
			return fmt.Errorf("%w: empty %s payload", commerce.ErrPlatformInvalidResponse, operation)
		}
		return err
	}
	if uerr := parseUserErrors(raw); uerr != nil {
		return uerr
	}
	if out == nil || resultPath == "" {
		return nil
	}
	result := gjson.GetBytes(raw, resultPath)
	if !result.Exists() || result.Type == gjson.Null {
		return errNoData
	}
	if err := json.Unmarshal([]byte(result.Raw), out); err != nil {
		return fmt.Errorf("%w: %v", commerce.ErrPlatformInvalidResponse, err)
	}
	return nil
}

// doRequest posts the GraphQL document and returns the raw response body
func (a *ShopifyAdapter) doRequest(ctx context.Context, payload graphQLRequest) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", a.config.StorefrontToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commerce.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", commerce.ErrPlatformUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", commerce.ErrPlatformRequestFailed, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", commerce.ErrPlatformInvalidResponse)
	}
	return body, nil
}

func parseGraphQLErrors(body []byte) *GraphQLError {
	errs := gjson.GetBytes(body, "errors")
	if !errs.Exists() || len(errs.Array()) == 0 {
		return nil
	}
	gqlErr := &GraphQLError{}
	errs.ForEach(func(_, e gjson.Result) bool {
		gqlErr.Messages = append(gqlErr.Messages, e.Get("message").String())
		if gqlErr.Code == "" {
			gqlErr.Code = e.Get("extensions.code").String()
		}
		return true
	})
	return gqlErr
}

func parseUserErrors(payload []byte) *UserError {
	for _, key := range []string{"customerUserErrors", "userErrors"} {
		list := gjson.GetBytes(payload, key).Array()
		if len(list) == 0 {
			continue
		}
		var ue shopifyUserError
		if err := json.Unmarshal([]byte(list[0].Raw), &ue); err != nil {
			return &UserError{Message: list[0].Get("message").String()}
		}
		return &UserError{Code: ue.Code, Field: strings.Join(ue.Field, "."), Message: ue.Message}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// CreateCart creates an empty cart
func (a *ShopifyAdapter) CreateCart(ctx context.Context) (*commerce.Cart, error) {
	var cart shopifyCart
	if err := a.mutate(ctx, "createCart", createCartMutation, nil, "cartCreate", "cart", &cart); err != nil {
		return nil, err
	}
	return a.reshapeCart(cart), nil
}

// AddToCart adds lines to the cart
func (a *ShopifyAdapter) AddToCart(ctx context.Context, cartID string, lines []commerce.CartLineInput) (*commerce.Cart, error) {
	var cart shopifyCart
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := a.mutate(ctx, "addToCart", addToCartMutation, vars, "cartLinesAdd", "cart", &cart); err != nil {
		return nil, err
	}
	return a.reshapeCart(cart), nil
}

// RemoveFromCart removes lines from the cart
func (a *ShopifyAdapter) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*commerce.Cart, error) {
	var cart shopifyCart
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := a.mutate(ctx, "removeFromCart", removeFromCartMutation, vars, "cartLinesRemove", "cart", &cart); err != nil {
		return nil, err
	}
	return a.reshapeCart(cart), nil
}

// UpdateCart changes line quantities
func (a *ShopifyAdapter) UpdateCart(ctx context.Context, cartID string, lines []commerce.CartLineUpdate) (*commerce.Cart, error) {
	var cart shopifyCart
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := a.mutate(ctx, "editCartItems", editCartItemsMutation, vars, "cartLinesUpdate", "cart", &cart); err != nil {
		return nil, err
	}
	return a.reshapeCart(cart), nil
}

// GetCart returns the cart, or nil when it no longer exists (e.g. after checkout)
func (a *ShopifyAdapter) GetCart(ctx context.Context, cartID string) (*commerce.Cart, error) {
	var cart shopifyCart
	err := a.query(ctx, "getCart", getCartQuery, map[string]any{"cartId": cartID}, "cart", &cart)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a.reshapeCart(cart), nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// GetProduct returns the product for handle, or nil when missing or hidden
func (a *ShopifyAdapter) GetProduct(ctx context.Context, handle string) (*commerce.Product, error) {
	var p shopifyProduct
	err := a.query(ctx, "getProduct", getProductQuery, map[string]any{"handle": handle}, "product", &p)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a.reshapeProduct(p, false), nil
}

// GetProducts lists products matching q
func (a *ShopifyAdapter) GetProducts(ctx context.Context, q commerce.ProductQuery) (*commerce.ProductPage, error) {
	var conn shopifyConnection[shopifyProduct]
	vars := productQueryVariables(q, false)
	if q.Query != "" {
		vars["query"] = q.Query
	}
	err := a.query(ctx, "getProducts", getProductsQuery, vars, "products", &conn)
	if errors.Is(err, errNoData) {
		return &commerce.ProductPage{Products: []commerce.Product{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &commerce.ProductPage{Products: a.reshapeProducts(conn.nodes()), PageInfo: conn.PageInfo}, nil
}

// GetProductRecommendations returns products the platform relates to productID
func (a *ShopifyAdapter) GetProductRecommendations(ctx context.Context, productID string) ([]commerce.Product, error) {
	var products []shopifyProduct
	err := a.query(ctx, "getProductRecommendations", getProductRecommendationsQuery,
		map[string]any{"productId": productID}, "productRecommendations", &products)
	if errors.Is(err, errNoData) {
		return []commerce.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return a.reshapeProducts(products), nil
}

// GetCollection returns the collection for handle, or nil when missing
func (a *ShopifyAdapter) GetCollection(ctx context.Context, handle string) (*commerce.Collection, error) {
	var c shopifyCollection
	err := a.query(ctx, "getCollection", getCollectionQuery, map[string]any{"handle": handle}, "collection", &c)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := reshapeCollection(c)
	return &col, nil
}

// GetCollectionProducts lists a collection's products; nil when the collection is missing
func (a *ShopifyAdapter) GetCollectionProducts(ctx context.Context, handle string, q commerce.ProductQuery) (*commerce.ProductPage, error) {
	var conn shopifyConnection[shopifyProduct]
	vars := productQueryVariables(q, true)
	vars["handle"] = handle
	err := a.query(ctx, "getCollectionProducts", getCollectionProductsQuery, vars, "collection.products", &conn)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &commerce.ProductPage{Products: a.reshapeProducts(conn.nodes()), PageInfo: conn.PageInfo}, nil
}

// GetCollections returns the synthetic "All" collection followed by every
// visible collection.
func (a *ShopifyAdapter) GetCollections(ctx context.Context) ([]commerce.Collection, error) {
	var conn shopifyConnection[shopifyCollection]
	err := a.query(ctx, "getCollections", getCollectionsQuery, nil, "collections", &conn)
	if err != nil && !errors.Is(err, errNoData) {
		return nil, err
	}

	out := []commerce.Collection{{
		Handle:      "",
		Title:       "All",
		Description: "All products",
		SEO:         commerce.SEO{Title: "All", Description: "All products"},
		Path:        "/search",
		UpdatedAt:   a.now().UTC(),
	}}
	for _, c := range conn.nodes() {
		if strings.HasPrefix(c.Handle, HiddenCollectionPrefix) {
			continue
		}
		out = append(out, reshapeCollection(c))
	}
	return out, nil
}

func productQueryVariables(q commerce.ProductQuery, collection bool) map[string]any {
	first := q.First
	if first <= 0 || first > 250 {
		first = 100
	}
	vars := map[string]any{"first": first, "reverse": q.Reverse}
	if q.SortKey != "" {
		key := q.SortKey
		if collection && key == "CREATED_AT" {
			key = "CREATED"
		}
		vars["sortKey"] = key
	}
	if q.After != "" {
		vars["after"] = q.After
	}
	return vars
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

// GetMenu returns a menu's links as storefront-relative paths
func (a *ShopifyAdapter) GetMenu(ctx context.Context, handle string) ([]commerce.MenuItem, error) {
	var menu shopifyMenu
	err := a.query(ctx, "getMenu", getMenuQuery, map[string]any{"handle": handle}, "menu", &menu)
	if errors.Is(err, errNoData) {
		return []commerce.MenuItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := make([]commerce.MenuItem, 0, len(menu.Items))
	for _, it := range menu.Items {
		items = append(items, commerce.MenuItem{Title: it.Title, Path: a.relativePath(it.URL)})
	}
	return items, nil
}

// relativePath strips the shop's origin and maps platform routes onto
// storefront routes (/collections -> /search, /pages/x -> /x). Links to
// other sites are returned unchanged.
func (a *ShopifyAdapter) relativePath(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if !a.isShopHost(u.Host) {
			return raw
		}
		p = u.EscapedPath()
		if u.RawQuery != "" {
			p += "?" + u.RawQuery
		}
	}
	p = strings.Replace(p, "/collections", "/search", 1)
	p = strings.Replace(p, "/pages", "", 1)
	if p == "" {
		p = "/"
	}
	return p
}

func (a *ShopifyAdapter) isShopHost(host string) bool {
	host = strings.ToLower(host)
	return host == strings.ToLower(a.config.ShopDomain()) || strings.HasSuffix(host, ".myshopify.com")
}

// GetPage returns a CMS page, or nil when missing
func (a *ShopifyAdapter) GetPage(ctx context.Context, handle string) (*commerce.Page, error) {
	var p shopifyPage
	err := a.query(ctx, "getPage", getPageQuery, map[string]any{"handle": handle}, "pageByHandle", &p)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	page := reshapePage(p)
	return &page, nil
}

// GetPages returns all CMS pages
func (a *ShopifyAdapter) GetPages(ctx context.Context) ([]commerce.Page, error) {
	var conn shopifyConnection[shopifyPage]
	err := a.query(ctx, "getPages", getPagesQuery, nil, "pages", &conn)
	if err != nil && !errors.Is(err, errNoData) {
		return nil, err
	}
	pages := make([]commerce.Page, 0, len(conn.Edges))
	for _, p := range conn.nodes() {
		pages = append(pages, reshapePage(p))
	}
	return pages, nil
}

// GetBlogArticles returns a page of a blog's articles, newest first; nil when the blog is missing
func (a *ShopifyAdapter) GetBlogArticles(ctx context.Context, blogHandle string, first int, after string) (*commerce.ArticlePage, error) {
	if first <= 0 || first > 250 {
		first = 20
	}
	vars := map[string]any{"handle": blogHandle, "first": first}
	if after != "" {
		vars["after"] = after
	}
	var blog shopifyBlog
	err := a.query(ctx, "getBlogArticles", getBlogArticlesQuery, vars, "blog", &blog)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	page := &commerce.ArticlePage{
		Blog:     commerce.Blog{Handle: blog.Handle, Title: blog.Title, SEO: seoOrEmpty(blog.SEO)},
		Articles: make([]commerce.Article, 0, len(blog.Articles.Edges)),
		PageInfo: blog.Articles.PageInfo,
	}
	for _, art := range blog.Articles.nodes() {
		page.Articles = append(page.Articles, reshapeArticle(art, blog.Handle))
	}
	return page, nil
}

// GetArticle returns one article, or nil when the blog or article is missing
func (a *ShopifyAdapter) GetArticle(ctx context.Context, blogHandle, articleHandle string) (*commerce.Article, error) {
	var art shopifyArticle
	vars := map[string]any{"blogHandle": blogHandle, "articleHandle": articleHandle}
	err := a.query(ctx, "getArticle", getArticleQuery, vars, "blog.articleByHandle", &art)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := reshapeArticle(art, blogHandle)
	return &out, nil
}

// ---------------------------------------------------------------------------
// Customer accounts
// ---------------------------------------------------------------------------

// CreateCustomerAccessToken signs a customer in with email and password
func (a *ShopifyAdapter) CreateCustomerAccessToken(ctx context.Context, email, password string) (*commerce.CustomerAccessToken, error) {
	var tok commerce.CustomerAccessToken
	vars := map[string]any{"input": map[string]string{"email": email, "password": password}}
	err := a.mutate(ctx, "customerAccessTokenCreate", customerAccessTokenCreateMutation, vars,
		"customerAccessTokenCreate", "customerAccessToken", &tok)
	if errors.Is(err, errNoData) {
		return nil, commerce.ErrInvalidCustomerToken
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// CreateCustomerAccessTokenWithMultipass signs a customer in with a Multipass token
func (a *ShopifyAdapter) CreateCustomerAccessTokenWithMultipass(ctx context.Context, multipassToken string) (*commerce.CustomerAccessToken, error) {
	var tok commerce.CustomerAccessToken
	vars := map[string]any{"multipassToken": multipassToken}
	err := a.mutate(ctx, "customerAccessTokenCreateWithMultipass", customerAccessTokenCreateWithMultipassMutation, vars,
		"customerAccessTokenCreateWithMultipass", "customerAccessToken", &tok)
	if errors.Is(err, errNoData) {
		return nil, commerce.ErrInvalidCustomerToken
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// DeleteCustomerAccessToken revokes a customer access token
func (a *ShopifyAdapter) DeleteCustomerAccessToken(ctx context.Context, token string) error {
	return a.mutate(ctx, "customerAccessTokenDelete", customerAccessTokenDeleteMutation,
		map[string]any{"customerAccessToken": token}, "customerAccessTokenDelete", "", nil)
}

// CreateCustomer registers a customer
func (a *ShopifyAdapter) CreateCustomer(ctx context.Context, input commerce.CustomerCreateInput) (*commerce.Customer, error) {
	var c shopifyCustomer
	err := a.mutate(ctx, "customerCreate", customerCreateMutation, map[string]any{"input": input},
		"customerCreate", "customer", &c)
	if errors.Is(err, errNoData) {
		return nil, fmt.Errorf("%w: customer missing from customerCreate", commerce.ErrPlatformInvalidResponse)
	}
	if err != nil {
		return nil, err
	}
	return reshapeCustomer(c), nil
}

// RecoverCustomer sends a password reset email
func (a *ShopifyAdapter) RecoverCustomer(ctx context.Context, email string) error {
	return a.mutate(ctx, "customerRecover", customerRecoverMutation,
		map[string]any{"email": email}, "customerRecover", "", nil)
}

// GetCustomer returns the customer owning token
func (a *ShopifyAdapter) GetCustomer(ctx context.Context, token string) (*commerce.Customer, error) {
	var c shopifyCustomer
	err := a.query(ctx, "getCustomer", getCustomerQuery, map[string]any{"customerAccessToken": token}, "customer", &c)
	if errors.Is(err, errNoData) {
		return nil, commerce.ErrInvalidCustomerToken
	}
	if err != nil {
		return nil, err
	}
	return reshapeCustomer(c), nil
}

// ---------------------------------------------------------------------------
// Reshaping
// ---------------------------------------------------------------------------

func (a *ShopifyAdapter) reshapeCart(c shopifyCart) *commerce.Cart {
	cart := &commerce.Cart{
		ID:          c.ID,
		CheckoutURL: c.CheckoutURL,
		Cost: commerce.CartCost{
			SubtotalAmount: c.Cost.SubtotalAmount,
			TotalAmount:    c.Cost.TotalAmount,
		},
		Lines:         c.Lines.nodes(),
		TotalQuantity: c.TotalQuantity,
	}
	if c.Cost.TotalTaxAmount != nil {
		cart.Cost.TotalTaxAmount = *c.Cost.TotalTaxAmount
	} else {
		code := c.Cost.TotalAmount.CurrencyCode
		if code == "" {
			code = a.config.DefaultCurrencyCode
		}
		cart.Cost.TotalTaxAmount = commerce.NewMoney("0.0", code)
	}
	return cart
}

// reshapeProduct flattens connections and fills alt texts. Hidden products
// yield nil unless keepHidden is set.
func (a *ShopifyAdapter) reshapeProduct(p shopifyProduct, keepHidden bool) *commerce.Product {
	out := &commerce.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		AvailableForSale: p.AvailableForSale,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		Options:          p.Options,
		PriceRange:       p.PriceRange,
		Variants:         p.Variants.nodes(),
		FeaturedImage:    p.FeaturedImage,
		SEO:              seoOrEmpty(p.SEO),
		Tags:             p.Tags,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		UpdatedAt:        p.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if !keepHidden && out.HasTag(a.config.HiddenProductTag) {
		return nil
	}
	if out.FeaturedImage != nil && out.FeaturedImage.AltText == "" {
		img := *out.FeaturedImage
		img.AltText = p.Title
		out.FeaturedImage = &img
	}
	images := p.Images.nodes()
	for i := range images {
		if images[i].AltText == "" {
			images[i].AltText = p.Title + " - " + imageFilename(images[i].URL)
		}
	}
	out.Images = images
	return out
}

func (a *ShopifyAdapter) reshapeProducts(products []shopifyProduct) []commerce.Product {
	out := make([]commerce.Product, 0, len(products))
	for _, p := range products {
		if rp := a.reshapeProduct(p, false); rp != nil {
			out = append(out, *rp)
		}
	}
	return out
}

// imageFilename returns the file name of an image URL without its extension
func imageFilename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func seoOrEmpty(s *commerce.SEO) commerce.SEO {
	if s == nil {
		return commerce.SEO{}
	}
	return *s
}

func reshapeCollection(c shopifyCollection) commerce.Collection {
	return commerce.Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		SEO:         seoOrEmpty(c.SEO),
		UpdatedAt:   c.UpdatedAt,
		Path:        "/search/" + c.Handle,
	}
}

func reshapePage(p shopifyPage) commerce.Page {
	return commerce.Page{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Body:        p.Body,
		BodySummary: p.BodySummary,
		SEO:         seoOrEmpty(p.SEO),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func reshapeArticle(a shopifyArticle, blogHandle string) commerce.Article {
	out := commerce.Article{
		ID:          a.ID,
		Handle:      a.Handle,
		BlogHandle:  a.Blog.Handle,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		ContentHTML: a.ContentHTML,
		PublishedAt: a.PublishedAt,
		Tags:        a.Tags,
		Image:       a.Image,
		SEO:         seoOrEmpty(a.SEO),
	}
	if out.BlogHandle == "" {
		out.BlogHandle = blogHandle
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if a.AuthorV2 != nil {
		out.Author = a.AuthorV2.Name
	}
	if out.Image != nil && out.Image.AltText == "" {
		img := *out.Image
		img.AltText = a.Title
		out.Image = &img
	}
	return out
}

func reshapeCustomer(c shopifyCustomer) *commerce.Customer {
	return &commerce.Customer{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		AcceptsMarketing: c.AcceptsMarketing,
		Orders:           c.Orders.nodes(),
	}
}

// Compile-time checks
var (
	_ commerce.Storefront       = (*ShopifyAdapter)(nil)
	_ commerce.CustomerAccounts = (*ShopifyAdapter)(nil)
)
