package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Cookies reads and writes the storefront's cookies with shared attributes.
// The session and OAuth state cookies are HttpOnly; the cart cookie is too,
// since only the server needs the cart ID.
type Cookies struct {
	cfg         config.CookieConfig
	sessionName string
	now         func() time.Time
}

// NewCookies creates a cookie helper
func NewCookies(cfg config.CookieConfig, sessionName string) *Cookies {
	return &Cookies{cfg: cfg, sessionName: sessionName, now: time.Now}
}

// SessionName is the session cookie's name
func (k *Cookies) SessionName() string {
	return k.sessionName
}

// ParseSameSite maps a config value to http.SameSite, defaulting to Lax
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (k *Cookies) set(c *gin.Context, name, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     k.cfg.Path,
		Domain:   k.cfg.Domain,
		Secure:   k.cfg.Secure,
		HttpOnly: true,
		SameSite: ParseSameSite(k.cfg.SameSite),
	}
	switch {
	case maxAge < 0:
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	case maxAge > 0:
		cookie.MaxAge = int(maxAge / time.Second)
		cookie.Expires = k.now().Add(maxAge)
	}
	http.SetCookie(c.Writer, cookie)
}

func (k *Cookies) get(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

// SetSession stores a session token until expiresAt
func (k *Cookies) SetSession(c *gin.Context, token string, expiresAt time.Time) {
	ttl := expiresAt.Sub(k.now())
	if ttl <= 0 {
		return
	}
	k.set(c, k.sessionName, token, ttl)
}

// ClearSession expires the session cookie
func (k *Cookies) ClearSession(c *gin.Context) {
	k.set(c, k.sessionName, "", -1)
}

// CartID returns the shopper's cart ID, or "" when there is none
func (k *Cookies) CartID(c *gin.Context) string {
	return k.get(c, k.cfg.CartName)
}

// SetCart stores the cart ID
func (k *Cookies) SetCart(c *gin.Context, cartID string) {
	k.set(c, k.cfg.CartName, cartID, k.cfg.CartMaxAge)
}

// ClearCart expires the cart cookie
func (k *Cookies) ClearCart(c *gin.Context) {
	k.set(c, k.cfg.CartName, "", -1)
}

// SetState stores an encoded OAuth flow for the callback
func (k *Cookies) SetState(c *gin.Context, encoded string) {
	k.set(c, k.cfg.StateCookie, encoded, k.cfg.StateMaxAge)
}

// State returns the encoded OAuth flow, or "" when missing
func (k *Cookies) State(c *gin.Context) string {
	return k.get(c, k.cfg.StateCookie)
}

// ClearState expires the OAuth state cookie
func (k *Cookies) ClearState(c *gin.Context) {
	k.set(c, k.cfg.StateCookie, "", -1)
}
