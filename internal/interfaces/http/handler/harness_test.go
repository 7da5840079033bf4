package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/content"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/application/seo"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSessionCookie = "customer_session"
	testCartCookie    = "cartId"
	testStateCookie   = "oauth_state"
)

var testCookieConfig = config.CookieConfig{
	Path:        "/",
	SameSite:    "lax",
	CartName:    testCartCookie,
	CartMaxAge:  30 * 24 * time.Hour,
	StateMaxAge: 10 * time.Minute,
	StateCookie: testStateCookie,
}

// harness wires real application services over mocked platform ports
type harness struct {
	storefront  *testutil.MockStorefront
	accounts    *testutil.MockCustomerAccounts
	events      *testutil.RecordingPublisher
	revocations *auth.InMemoryRevocationList
	fx          *testutil.Fixtures
	store       *cache.MemoryStore
	sessions    *auth.SessionService

	catalog  *catalog.Service
	content  *content.Service
	cart     *cart.Service
	customer *customer.Service
	seo      *seo.Service
	cookies  *Cookies
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	h := &harness{
		storefront:  new(testutil.MockStorefront),
		accounts:    new(testutil.MockCustomerAccounts),
		events:      &testutil.RecordingPublisher{},
		revocations: auth.NewInMemoryRevocationList(),
		fx:          testutil.NewFixtures(7),
		store:       cache.NewMemoryStore(200, time.Hour),
	}
	t.Cleanup(func() {
		h.storefront.AssertExpectations(t)
		h.accounts.AssertExpectations(t)
	})

	sessions, err := auth.NewSessionService(config.SessionConfig{
		Secret:     "handler-test-secret-with-32-bytes!!",
		TTL:        time.Hour,
		Issuer:     "storefront-test",
		CookieName: testSessionCookie,
	})
	require.NoError(t, err)
	h.sessions = sessions

	log := zap.NewNop()
	h.catalog = catalog.NewService(h.storefront, h.store, h.events, nil, catalog.DefaultServiceConfig(), log)
	h.content = content.NewService(h.storefront, h.store, nil, time.Minute, log)
	h.cart = cart.NewService(h.storefront, h.events, nil, log)
	h.customer = customer.NewService(h.accounts, sessions, h.revocations, nil, h.events, nil, log)
	h.seo = seo.NewService(seo.Config{
		BaseURL:           "https://shop.example.com",
		SiteName:          "Acme Store",
		DefaultBlogHandle: "news",
	}, h.catalog, h.content, log)
	h.cookies = NewCookies(testCookieConfig, testSessionCookie)
	return h
}

// router returns an engine with the request ID and session middleware
func (h *harness) router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Session(h.customer, testSessionCookie))
	return r
}

// sessionCookie signs a session for email as the login flow would
func (h *harness) sessionCookie(t *testing.T, email, customerToken string) *http.Cookie {
	t.Helper()
	session, err := h.sessions.Issue(testutil.CustomerToken(customerToken, time.Hour), email, customer.ProviderPassword)
	require.NoError(t, err)
	return &http.Cookie{Name: testSessionCookie, Value: session.Token}
}

func serve(r http.Handler, method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func serveForm(r http.Handler, path, form string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return serve(r, http.MethodPost, path, strings.NewReader(form), "application/x-www-form-urlencoded", cookies...)
}

// responseCookie returns the Set-Cookie named name, or nil
func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
