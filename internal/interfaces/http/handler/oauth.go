package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OAuthClient runs the authorization code flow against one provider
type OAuthClient interface {
	Name() string
	AuthCodeURL(flow auth.Flow) string
	Exchange(ctx context.Context, code string, flow auth.Flow) (*oauth2.Token, error)
	Profile(ctx context.Context, tok *oauth2.Token) (*commerce.ExternalProfile, error)
}

// OAuthHandler signs customers in through an external identity provider
type OAuthHandler struct {
	BaseHandler
	provider        OAuthClient
	customerService *customer.Service
	cookies         *Cookies
	returnTo        string
}

// NewOAuthHandler creates a new OAuthHandler. returnTo is the absolute URL
// the platform sends the customer to after a Multipass sign-in.
func NewOAuthHandler(provider OAuthClient, customerService *customer.Service, cookies *Cookies, returnTo string) *OAuthHandler {
	return &OAuthHandler{
		provider:        provider,
		customerService: customerService,
		cookies:         cookies,
		returnTo:        returnTo,
	}
}

const (
	loginFailedPath = "/login?error=oauth"
	accountPath     = "/account"
)

// Login starts the flow: it stores a fresh state and PKCE verifier in a
// short-lived cookie and redirects to the provider.
func (h *OAuthHandler) Login(c *gin.Context) {
	if c.Param("provider") != h.provider.Name() {
		h.NotFound(c, "Unknown sign-in provider")
		return
	}

	flow, err := auth.NewFlow()
	if err != nil {
		logger.GetGinLogger(c).Error("Failed to start OAuth flow", zap.Error(err))
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}
	h.cookies.SetState(c, flow.Encode())
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(flow))
}

// Callback completes the flow and signs the customer in
func (h *OAuthHandler) Callback(c *gin.Context) {
	log := logger.GetGinLogger(c)
	if c.Param("provider") != h.provider.Name() {
		h.NotFound(c, "Unknown sign-in provider")
		return
	}

	raw := h.cookies.State(c)
	h.cookies.ClearState(c)

	if providerErr := c.Query("error"); providerErr != "" {
		log.Info("OAuth sign-in declined", zap.String("error", providerErr))
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}

	flow, err := auth.DecodeFlow(raw)
	if err == nil {
		err = flow.Verify(c.Query("state"))
	}
	if err != nil {
		log.Warn("OAuth state mismatch", zap.Error(err))
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}

	ctx := c.Request.Context()
	tok, err := h.provider.Exchange(ctx, c.Query("code"), flow)
	if err != nil {
		log.Error("OAuth code exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}

	profile, err := h.provider.Profile(ctx, tok)
	if err != nil {
		log.Error("Failed to load OAuth profile", zap.Error(err))
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}

	result, err := h.customerService.OAuthLogin(ctx, profile, h.returnTo)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("OAuth sign-in failed", zap.String("provider", h.provider.Name()), zap.Error(err))
		}
		c.Redirect(http.StatusFound, loginFailedPath)
		return
	}

	h.cookies.SetSession(c, result.SessionToken, result.ExpiresAt)
	c.Redirect(http.StatusFound, accountPath)
}
