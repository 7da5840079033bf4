package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// CartHandler handles cart API endpoints. The cart ID travels in a cookie;
// the handler reissues it whenever a mutation had to start a new cart.
type CartHandler struct {
	BaseHandler
	cartService *cart.Service
	cookies     *Cookies
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cart.Service, cookies *Cookies) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		cookies:     cookies,
	}
}

// cartContext returns the request context tagged with the shopper's cart ID
func (h *CartHandler) cartContext(c *gin.Context) (context.Context, string) {
	cartID := h.cookies.CartID(c)
	ctx := c.Request.Context()
	if cartID != "" {
		ctx = logger.WithCartID(ctx, cartID)
	}
	return ctx, cartID
}

func (h *CartHandler) respond(c *gin.Context, result *cart.Result) {
	if result.Created && result.Cart != nil {
		h.cookies.SetCart(c, result.Cart.ID)
	}
	h.Success(c, result.Cart)
}

// GetCart godoc
// @Summary      Get the shopper's cart
// @Description  Returns null when the shopper has no cart yet
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=commerce.Cart}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cartID := h.cartContext(c)
	result, err := h.cartService.GetCart(ctx, cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result == nil && cartID != "" {
		h.cookies.ClearCart(c)
	}
	h.Success(c, result)
}

// AddItem godoc
// @Summary      Add a variant to the cart
// @Description  Creates a cart when the shopper has none
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddItemInput true "Variant and quantity"
// @Success      200 {object} dto.Response{data=commerce.Cart}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var in cart.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	ctx, cartID := h.cartContext(c)
	in.CartID = cartID
	result, err := h.cartService.AddItem(ctx, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, result)
}

// UpdateItemRequest is the body of a line update
type UpdateItemRequest struct {
	MerchandiseID string `json:"merchandise_id" binding:"max=200"`
	Quantity      *int   `json:"quantity" binding:"required,min=0,max=999"`
}

// UpdateItem godoc
// @Summary      Set a cart line's quantity
// @Description  A quantity of zero removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        line_id path string            true "Cart line ID"
// @Param        request body UpdateItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=commerce.Cart}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/cart/lines/{line_id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx, cartID := h.cartContext(c)
	result, err := h.cartService.UpdateItem(ctx, cart.UpdateItemInput{
		CartID:        cartID,
		LineID:        c.Param("line_id"),
		MerchandiseID: req.MerchandiseID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, result)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        line_id path string true "Cart line ID"
// @Success      200 {object} dto.Response{data=commerce.Cart}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/cart/lines/{line_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, cartID := h.cartContext(c)
	result, err := h.cartService.RemoveItem(ctx, cartID, c.Param("line_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, result)
}
