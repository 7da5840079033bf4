package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/content"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/application/seo"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/view"
	"go.uber.org/zap"
)

// PagesConfig names the merchant-managed handles the pages read
type PagesConfig struct {
	SiteName           string
	Company            string
	MenuHandle         string
	FooterMenuHandle   string
	FeaturedCollection string
	CarouselCollection string
	DefaultBlogHandle  string
	OAuthEnabled       bool
	OAuthProvider      string
}

// PagesHandler renders the storefront's HTML pages
type PagesHandler struct {
	cfg      PagesConfig
	catalog  *catalog.Service
	content  *content.Service
	cart     *cart.Service
	customer *customer.Service
	seo      *seo.Service
	cookies  *Cookies
}

// NewPagesHandler creates a new PagesHandler
func NewPagesHandler(
	cfg PagesConfig,
	catalogService *catalog.Service,
	contentService *content.Service,
	cartService *cart.Service,
	customerService *customer.Service,
	seoService *seo.Service,
	cookies *Cookies,
) *PagesHandler {
	return &PagesHandler{
		cfg:      cfg,
		catalog:  catalogService,
		content:  contentService,
		cart:     cartService,
		customer: customerService,
		seo:      seoService,
		cookies:  cookies,
	}
}

// render executes a page inside the layout with the shared chrome: menus,
// session state and the cart badge.
func (h *PagesHandler) render(c *gin.Context, status int, page string, meta seo.Metadata, data any) {
	ctx := c.Request.Context()
	_, signedIn := getSession(c)
	c.HTML(status, page, view.Page{
		Meta:       meta,
		SiteName:   h.cfg.SiteName,
		Company:    h.cfg.Company,
		Menu:       h.catalog.GetMenu(ctx, h.cfg.MenuHandle),
		FooterMenu: h.catalog.GetMenu(ctx, h.cfg.FooterMenuHandle),
		SignedIn:   signedIn,
		CartCount:  h.cartCount(c),
		RequestID:  getRequestID(c),
		Data:       data,
	})
}

// cartCount is best effort: the badge shows zero when the cart is unavailable
func (h *PagesHandler) cartCount(c *gin.Context) int {
	cartID := h.cookies.CartID(c)
	if cartID == "" {
		return 0
	}
	ct, err := h.cart.GetCart(logger.WithCartID(c.Request.Context(), cartID), cartID)
	if err != nil || ct == nil {
		return 0
	}
	return ct.TotalQuantity
}

// fail renders the error page for err with the status its code maps to
func (h *PagesHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	data := view.ErrorData{Title: "Something went wrong", Message: "Please try again in a moment."}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status = dto.GetHTTPStatus(dto.NormalizeErrorCode(domainErr.Code))
	}
	switch {
	case status == http.StatusNotFound:
		data = view.ErrorData{Title: "Page not found", Message: "The page you are looking for does not exist."}
	case status == http.StatusBadRequest && domainErr != nil:
		data = view.ErrorData{Title: "Invalid request", Message: domainErr.Message}
	case status == http.StatusTooManyRequests:
		data = view.ErrorData{Title: "Too many requests", Message: "Please slow down and try again."}
	case status >= http.StatusInternalServerError:
		logger.GetGinLogger(c).Error("Page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	data.Status = status

	meta := h.seo.Default()
	meta.Title = h.seo.Title(data.Title)
	meta.Robots = seo.Robots{}
	h.render(c, status, view.PageError, meta, data)
}

// NotFound renders the 404 page
func (h *PagesHandler) NotFound(c *gin.Context) {
	h.fail(c, shared.ErrNotFound)
}

// Home renders the featured collection and the carousel
func (h *PagesHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	h.render(c, http.StatusOK, view.PageHome, h.seo.Default(), view.HomeData{
		Featured: h.collectionProducts(ctx, h.cfg.FeaturedCollection),
		Carousel: h.collectionProducts(ctx, h.cfg.CarouselCollection),
	})
}

// collectionProducts reads a merchant-curated collection, treating a missing
// or failing one as empty.
func (h *PagesHandler) collectionProducts(ctx context.Context, handle string) []commerce.Product {
	if handle == "" {
		return nil
	}
	result, err := h.catalog.GetCollectionProducts(ctx, handle, catalog.SearchInput{})
	if err != nil {
		logger.L(ctx).Warn("Home collection unavailable", zap.String("collection", handle), zap.Error(err))
		return nil
	}
	return result.Products
}

// Search renders the product search page
func (h *PagesHandler) Search(c *gin.Context) {
	var in catalog.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.fail(c, shared.ErrInvalidInput.WithMessage("Invalid search"))
		return
	}

	ctx := c.Request.Context()
	result, err := h.catalog.GetProducts(ctx, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageSearch, h.seo.ForSearch(in.Query), view.SearchData{
		Result:      result,
		Collections: h.collections(ctx),
		SortOptions: commerce.SortOptions,
		BasePath:    "/search",
	})
}

// SearchCollection renders one collection's products
func (h *PagesHandler) SearchCollection(c *gin.Context) {
	var in catalog.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.fail(c, shared.ErrInvalidInput.WithMessage("Invalid search"))
		return
	}

	ctx := c.Request.Context()
	result, err := h.catalog.GetCollectionProducts(ctx, c.Param("collection"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	collection := result.Collection
	h.render(c, http.StatusOK, view.PageSearch, h.seo.ForCollection(&collection), view.SearchData{
		Result:      &result.SearchResult,
		Collection:  &collection,
		Collections: h.collections(ctx),
		SortOptions: commerce.SortOptions,
		BasePath:    collection.Path,
	})
}

func (h *PagesHandler) collections(ctx context.Context) []commerce.Collection {
	collections, err := h.catalog.GetCollections(ctx)
	if err != nil {
		return nil
	}
	return collections
}

// Product renders a product with related products
func (h *PagesHandler) Product(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.catalog.GetProduct(ctx, c.Param("handle"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageProduct, h.seo.ForProduct(product), view.ProductData{
		Product:         product,
		Recommendations: h.catalog.GetRecommendations(ctx, product.ID),
		Added:           c.Query("added") == "1",
	})
}

// Blog renders a blog's article list
func (h *PagesHandler) Blog(c *gin.Context) {
	var q ArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, shared.ErrInvalidInput.WithMessage("Invalid page"))
		return
	}

	page, err := h.content.GetBlogArticles(c.Request.Context(), c.Param("blog"), q.First, q.After)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageBlog, h.seo.ForBlog(&page.Blog), view.BlogData{Page: page})
}

// DefaultBlog redirects to the configured blog
func (h *PagesHandler) DefaultBlog(c *gin.Context) {
	c.Redirect(http.StatusFound, "/blog/"+h.cfg.DefaultBlogHandle)
}

// Article renders an article with related posts
func (h *PagesHandler) Article(c *gin.Context) {
	articleView, err := h.content.GetArticle(c.Request.Context(), c.Param("blog"), c.Param("article"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageArticle, h.seo.ForArticle(&articleView.Article), view.ArticleData{View: articleView})
}

// CMSPage renders a merchant page for unmatched single-segment paths and
// the 404 page for everything else.
func (h *PagesHandler) CMSPage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		h.NotFound(c)
		return
	}
	handle := strings.Trim(c.Request.URL.Path, "/")
	if handle == "" || strings.Contains(handle, "/") || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		h.NotFound(c)
		return
	}

	page, err := h.content.GetPage(c.Request.Context(), handle)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageCMS, h.seo.ForPage(page), view.CMSData{Page: page})
}

func (h *PagesHandler) cartMeta() seo.Metadata {
	meta := h.seo.Default()
	meta.Title = h.seo.Title("Cart")
	meta.Canonical = h.seo.URL("/cart")
	meta.Robots = seo.Robots{}
	return meta
}

// Cart renders the shopper's cart
func (h *PagesHandler) Cart(c *gin.Context) {
	cartID := h.cookies.CartID(c)
	ct, err := h.cart.GetCart(logger.WithCartID(c.Request.Context(), cartID), cartID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if ct == nil && cartID != "" {
		h.cookies.ClearCart(c)
	}
	h.render(c, http.StatusOK, view.PageCart, h.cartMeta(), view.CartData{Cart: ct})
}

// AddToCartForm is the product page's add-to-cart form
type AddToCartForm struct {
	cart.AddItemInput
	ReturnTo string `form:"return_to" binding:"max=500"`
}

// AddToCart adds a variant and redirects back to the product
func (h *PagesHandler) AddToCart(c *gin.Context) {
	var form AddToCartForm
	if err := c.ShouldBind(&form); err != nil {
		h.cartError(c, "Please choose a product option.")
		return
	}

	cartID := h.cookies.CartID(c)
	form.CartID = cartID
	result, err := h.cart.AddItem(logger.WithCartID(c.Request.Context(), cartID), form.AddItemInput)
	if err != nil {
		h.cartFailed(c, err)
		return
	}
	if result.Created {
		h.cookies.SetCart(c, result.Cart.ID)
	}

	target := "/cart"
	if isLocalPath(form.ReturnTo) {
		target = form.ReturnTo + "?added=1"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// UpdateCart changes a line's quantity from the cart page
func (h *PagesHandler) UpdateCart(c *gin.Context) {
	var in cart.UpdateItemInput
	if err := c.ShouldBind(&in); err != nil {
		h.cartError(c, "Please enter a quantity between 0 and 999.")
		return
	}

	cartID := h.cookies.CartID(c)
	in.CartID = cartID
	if _, err := h.cart.UpdateItem(logger.WithCartID(c.Request.Context(), cartID), in); err != nil {
		h.cartFailed(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *PagesHandler) cartFailed(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && dto.GetHTTPStatus(dto.NormalizeErrorCode(domainErr.Code)) < http.StatusInternalServerError {
		h.cartError(c, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("Cart update failed", zap.Error(err))
	h.cartError(c, "Your cart could not be updated. Please try again.")
}

// cartError re-renders the cart with a message
func (h *PagesHandler) cartError(c *gin.Context, message string) {
	cartID := h.cookies.CartID(c)
	ct, err := h.cart.GetCart(c.Request.Context(), cartID)
	if err != nil {
		ct = nil
	}
	h.render(c, http.StatusBadRequest, view.PageCart, h.cartMeta(), view.CartData{Cart: ct, Error: message})
}

func (h *PagesHandler) formMeta(title, path string) seo.Metadata {
	meta := h.seo.Default()
	meta.Title = h.seo.Title(title)
	meta.Canonical = h.seo.URL(path)
	meta.Robots = seo.Robots{Index: false, Follow: true}
	return meta
}

func (h *PagesHandler) formData(values map[string]string, errs map[string]string, message string) view.FormData {
	if values == nil {
		values = map[string]string{}
	}
	data := view.FormData{Values: values, Errors: errs, Message: message, OAuthEnabled: h.cfg.OAuthEnabled}
	if h.cfg.OAuthEnabled {
		data.OAuthURL = "/auth/" + h.cfg.OAuthProvider + "/login"
	}
	return data
}

// LoginForm renders the sign-in form
func (h *PagesHandler) LoginForm(c *gin.Context) {
	if _, ok := getSession(c); ok {
		c.Redirect(http.StatusFound, accountPath)
		return
	}
	message := ""
	if c.Query("error") == "oauth" {
		message = "External sign-in failed. Please try again."
	}
	h.render(c, http.StatusOK, view.PageLogin, h.formMeta("Sign in", "/login"), h.formData(nil, nil, message))
}

// Login signs the customer in from the form
func (h *PagesHandler) Login(c *gin.Context) {
	var in customer.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		values := map[string]string{"email": c.PostForm("email")}
		h.render(c, http.StatusBadRequest, view.PageLogin, h.formMeta("Sign in", "/login"),
			h.formData(values, middleware.ValidationMessages(err), "Please check the highlighted fields."))
		return
	}

	result, err := h.customer.Login(c.Request.Context(), in)
	if err != nil {
		status, message := formFailure(c, err)
		h.render(c, status, view.PageLogin, h.formMeta("Sign in", "/login"),
			h.formData(map[string]string{"email": in.Email}, nil, message))
		return
	}
	h.cookies.SetSession(c, result.SessionToken, result.ExpiresAt)
	c.Redirect(http.StatusSeeOther, accountPath)
}

// RegisterForm renders the sign-up form
func (h *PagesHandler) RegisterForm(c *gin.Context) {
	if _, ok := getSession(c); ok {
		c.Redirect(http.StatusFound, accountPath)
		return
	}
	h.render(c, http.StatusOK, view.PageRegister, h.formMeta("Create account", "/register"), h.formData(nil, nil, ""))
}

// Register creates an account from the form and signs the customer in
func (h *PagesHandler) Register(c *gin.Context) {
	values := map[string]string{
		"email":      c.PostForm("email"),
		"first_name": c.PostForm("first_name"),
		"last_name":  c.PostForm("last_name"),
	}

	var in customer.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, view.PageRegister, h.formMeta("Create account", "/register"),
			h.formData(values, middleware.ValidationMessages(err), "Please check the highlighted fields."))
		return
	}

	result, err := h.customer.Register(c.Request.Context(), in)
	if err != nil {
		status, message := formFailure(c, err)
		h.render(c, status, view.PageRegister, h.formMeta("Create account", "/register"),
			h.formData(values, nil, message))
		return
	}
	h.cookies.SetSession(c, result.SessionToken, result.ExpiresAt)
	c.Redirect(http.StatusSeeOther, accountPath)
}

// formFailure turns a sign-in failure into a status and a message safe to
// show on the form
func formFailure(c *gin.Context, err error) (int, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(dto.NormalizeErrorCode(domainErr.Code))
		if status < http.StatusInternalServerError {
			return status, domainErr.Message
		}
	}
	logger.GetGinLogger(c).Error("Sign-in form failed", zap.Error(err))
	return http.StatusBadGateway, "We could not reach the store. Please try again."
}

// TooManyAttempts re-renders the sign-in or sign-up form when the
// credential rate limit rejects a post
func (h *PagesHandler) TooManyAttempts(c *gin.Context) {
	const message = "Too many attempts. Please wait a moment and try again."
	if c.FullPath() == "/register" {
		values := map[string]string{
			"email":      c.PostForm("email"),
			"first_name": c.PostForm("first_name"),
			"last_name":  c.PostForm("last_name"),
		}
		h.render(c, http.StatusTooManyRequests, view.PageRegister, h.formMeta("Create account", "/register"),
			h.formData(values, nil, message))
		return
	}
	h.render(c, http.StatusTooManyRequests, view.PageLogin, h.formMeta("Sign in", "/login"),
		h.formData(map[string]string{"email": c.PostForm("email")}, nil, message))
}

// Logout signs the customer out and returns home
func (h *PagesHandler) Logout(c *gin.Context) {
	if claims, ok := getSession(c); ok {
		if err := h.customer.Logout(c.Request.Context(), claims); err != nil {
			logger.GetGinLogger(c).Warn("Logout incomplete", zap.Error(err))
		}
	}
	h.cookies.ClearSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Account renders the signed-in customer's account, or sends anonymous
// visitors to the sign-in form
func (h *PagesHandler) Account(c *gin.Context) {
	claims, ok := getSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	account, err := h.customer.Account(c.Request.Context(), claims.CustomerToken)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && dto.NormalizeErrorCode(domainErr.Code) == dto.ErrCodeUnauthorized {
			h.cookies.ClearSession(c)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		h.fail(c, err)
		return
	}
	meta := h.formMeta("Account", accountPath)
	meta.Robots = seo.Robots{}
	h.render(c, http.StatusOK, view.PageAccount, meta, view.AccountData{Account: account})
}

// isLocalPath accepts same-origin absolute paths only
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\") && !strings.ContainsAny(p, "?#")
}
