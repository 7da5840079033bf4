package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testRevalidateSecret = "webhook-secret"

func revalidateRouter(h *harness) *gin.Engine {
	r := h.router()
	r.POST("/api/revalidate", NewRevalidateHandler(h.catalog, testRevalidateSecret).Revalidate)
	return r
}

func webhook(r http.Handler, secret, topic string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret="+secret, nil)
	if topic != "" {
		req.Header.Set(TopicHeader, topic)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRevalidateHandler_RejectsBadSecret(t *testing.T) {
	h := newHarness(t)

	w := webhook(revalidateRouter(h), "guess", "products/update")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	testutil.AssertErrorResponse(t, w, dto.ErrCodeUnauthorized)
}

func TestRevalidateHandler_ProductTopic(t *testing.T) {
	h := newHarness(t)
	p := h.fx.Product()
	// Loaded twice: once to prime the cache, once after the webhook evicts it.
	h.storefront.On("GetProduct", mock.Anything, p.Handle).Return(&p, nil).Twice()
	ctx := context.Background()
	_, err := h.catalog.GetProduct(ctx, p.Handle)
	require.NoError(t, err)
	_, err = h.catalog.GetProduct(ctx, p.Handle)
	require.NoError(t, err)

	w := webhook(revalidateRouter(h), testRevalidateSecret, "products/update")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "products/update", data["topic"])
	assert.Equal(t, []interface{}{"products"}, data["tags"])
	assert.GreaterOrEqual(t, data["evicted"].(float64), float64(1))
	assert.NotZero(t, data["now"])
	assert.Contains(t, h.events.Types(), event.TypeCacheRevalid)

	_, err = h.catalog.GetProduct(ctx, p.Handle)
	require.NoError(t, err)
}

func TestRevalidateHandler_UnknownTopic(t *testing.T) {
	h := newHarness(t)

	for _, topic := range []string{"orders/create", ""} {
		w := webhook(revalidateRouter(h), testRevalidateSecret, topic)

		require.Equal(t, http.StatusOK, w.Code)
		data := testutil.AssertSuccessResponse(t, w)["data"].(map[string]interface{})
		assert.Empty(t, data["tags"])
		assert.EqualValues(t, 0, data["evicted"])
	}
	assert.NotContains(t, h.events.Types(), event.TypeCacheRevalid)
}
