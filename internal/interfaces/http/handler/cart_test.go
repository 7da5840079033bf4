package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cartRouter(h *harness) *gin.Engine {
	r := h.router()
	ch := NewCartHandler(h.cart, h.cookies)
	api := r.Group("/api")
	api.GET("/cart", ch.GetCart)
	api.POST("/cart/lines", ch.AddItem)
	api.PATCH("/cart/lines/:line_id", ch.UpdateItem)
	api.DELETE("/cart/lines/:line_id", ch.RemoveItem)
	return r
}

func cartCookie(id string) *http.Cookie {
	return &http.Cookie{Name: testCartCookie, Value: id}
}

func TestCartHandler_GetCart(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		h := newHarness(t)

		w := serve(cartRouter(h), http.MethodGet, "/api/cart", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.AssertSuccessResponse(t, w)
		assert.Nil(t, resp["data"])
	})

	t.Run("existing cart", func(t *testing.T) {
		h := newHarness(t)
		ct := h.fx.Cart(h.fx.Product())
		h.storefront.On("GetCart", mock.Anything, ct.ID).Return(ct, nil).Once()

		w := serve(cartRouter(h), http.MethodGet, "/api/cart", nil, "", cartCookie(ct.ID))

		require.Equal(t, http.StatusOK, w.Code)
		data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, ct.ID, data["id"])
	})

	t.Run("stale cookie is cleared", func(t *testing.T) {
		h := newHarness(t)
		h.storefront.On("GetCart", mock.Anything, "gone").Return(nil, nil).Once()

		w := serve(cartRouter(h), http.MethodGet, "/api/cart", nil, "", cartCookie("gone"))

		require.Equal(t, http.StatusOK, w.Code)
		cookie := responseCookie(w, testCartCookie)
		require.NotNil(t, cookie)
		assert.Equal(t, -1, cookie.MaxAge)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("creates a cart and sets the cookie", func(t *testing.T) {
		h := newHarness(t)
		p := h.fx.Product()
		empty := &commerce.Cart{ID: "gid://shopify/Cart/new"}
		filled := h.fx.Cart(p)
		filled.ID = empty.ID
		h.storefront.On("CreateCart", mock.Anything).Return(empty, nil).Once()
		h.storefront.On("AddToCart", mock.Anything, empty.ID, []commerce.CartLineInput{
			{MerchandiseID: p.Variants[0].ID, Quantity: 2},
		}).Return(filled, nil).Once()

		body := `{"merchandise_id":"` + p.Variants[0].ID + `","quantity":2}`
		w := serve(cartRouter(h), http.MethodPost, "/api/cart/lines", strings.NewReader(body), "application/json")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cookie := responseCookie(w, testCartCookie)
		require.NotNil(t, cookie)
		assert.Equal(t, empty.ID, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Contains(t, h.events.Types(), event.TypeCartAdd)
	})

	t.Run("existing cart keeps its cookie", func(t *testing.T) {
		h := newHarness(t)
		p := h.fx.Product()
		ct := h.fx.Cart()
		h.storefront.On("GetCart", mock.Anything, ct.ID).Return(ct, nil).Once()
		h.storefront.On("AddToCart", mock.Anything, ct.ID, mock.Anything).Return(h.fx.Cart(p), nil).Once()

		body := `{"merchandise_id":"` + p.Variants[0].ID + `"}`
		w := serve(cartRouter(h), http.MethodPost, "/api/cart/lines", strings.NewReader(body), "application/json", cartCookie(ct.ID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Nil(t, responseCookie(w, testCartCookie))
	})

	t.Run("missing variant", func(t *testing.T) {
		h := newHarness(t)

		w := serve(cartRouter(h), http.MethodPost, "/api/cart/lines", strings.NewReader(`{"quantity":1}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeValidation)
	})

	t.Run("explicit zero quantity", func(t *testing.T) {
		h := newHarness(t)

		w := serve(cartRouter(h), http.MethodPost, "/api/cart/lines", strings.NewReader(`{"merchandise_id":"v1","quantity":0}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeValidation)
		h.storefront.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newHarness(t)

		w := serve(cartRouter(h), http.MethodPost, "/api/cart/lines", strings.NewReader(`{`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeBadRequest)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	t.Run("sets quantity", func(t *testing.T) {
		h := newHarness(t)
		p := h.fx.Product()
		ct := h.fx.Cart(p)
		line := ct.Lines[0]
		h.storefront.On("GetCart", mock.Anything, ct.ID).Return(ct, nil).Once()
		h.storefront.On("UpdateCart", mock.Anything, ct.ID, []commerce.CartLineUpdate{
			{ID: line.ID, MerchandiseID: line.Merchandise.ID, Quantity: 3},
		}).Return(ct, nil).Once()

		w := serve(cartRouter(h), http.MethodPatch, "/api/cart/lines/"+line.ID, strings.NewReader(`{"quantity":3}`), "application/json", cartCookie(ct.ID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		testutil.AssertSuccessResponse(t, w)
	})

	t.Run("unknown line", func(t *testing.T) {
		h := newHarness(t)
		ct := h.fx.Cart(h.fx.Product())
		h.storefront.On("GetCart", mock.Anything, ct.ID).Return(ct, nil).Once()

		w := serve(cartRouter(h), http.MethodPatch, "/api/cart/lines/nope", strings.NewReader(`{"quantity":3}`), "application/json", cartCookie(ct.ID))

		assert.Equal(t, http.StatusNotFound, w.Code)
		testutil.AssertErrorResponse(t, w, dto.ErrCodeNotFound)
	})

	t.Run("without a cart", func(t *testing.T) {
		h := newHarness(t)

		w := serve(cartRouter(h), http.MethodPatch, "/api/cart/lines/l1", strings.NewReader(`{"quantity":3}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		h := newHarness(t)
		ct := h.fx.Cart(h.fx.Product())
		line := ct.Lines[0]
		h.storefront.On("GetCart", mock.Anything, ct.ID).Return(ct, nil).Once()
		h.storefront.On("RemoveFromCart", mock.Anything, ct.ID, []string{line.ID}).Return(&commerce.Cart{ID: ct.ID}, nil).Once()

		w := serve(cartRouter(h), http.MethodPatch, "/api/cart/lines/"+line.ID, strings.NewReader(`{"quantity":0}`), "application/json", cartCookie(ct.ID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	for _, body := range []string{`{}`, `{"merchandise_id":"gid://shopify/ProductVariant/1"}`} {
		t.Run("omitted quantity "+body, func(t *testing.T) {
			h := newHarness(t)
			ct := h.fx.Cart(h.fx.Product())

			w := serve(cartRouter(h), http.MethodPatch, "/api/cart/lines/"+ct.Lines[0].ID, strings.NewReader(body), "application/json", cartCookie(ct.ID))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			testutil.AssertErrorResponse(t, w, dto.ErrCodeValidation)
			h.storefront.AssertNotCalled(t, "RemoveFromCart", mock.Anything, mock.Anything, mock.Anything)
			h.storefront.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	h := newHarness(t)
	ct := h.fx.Cart(h.fx.Product())
	line := ct.Lines[0]
	h.storefront.On("RemoveFromCart", mock.Anything, ct.ID, []string{line.ID}).Return(&commerce.Cart{ID: ct.ID}, nil).Once()

	w := serve(cartRouter(h), http.MethodDelete, "/api/cart/lines/"+line.ID, nil, "", cartCookie(ct.ID))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, ct.ID, data["id"])
}
