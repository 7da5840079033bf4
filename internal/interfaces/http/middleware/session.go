package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SessionClaimsKey is the gin context key holding *auth.SessionClaims
const SessionClaimsKey = "session_claims"

// SessionAuthenticator verifies a session cookie value
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionToken string) (*auth.SessionClaims, error)
}

// Session reads the session cookie and, when it verifies, stores the claims
// in the gin context. Anonymous and invalid sessions pass through untouched;
// handlers that need a customer use RequireSession or GetSession.
//
// The analytics session on the request context is the session ID of a
// signed-in customer, otherwise the request ID.
func Session(authenticator SessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := GetRequestID(c)
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			claims, err := authenticator.Authenticate(c.Request.Context(), token)
			if err != nil {
				logger.GetGinLogger(c).Debug("Ignoring invalid session cookie", zap.Error(err))
			} else {
				c.Set(SessionClaimsKey, claims)
				if claims.ID != "" {
					sessionID = claims.ID
				}
			}
		}

		if sessionID != "" {
			c.Request = c.Request.WithContext(event.WithSessionID(c.Request.Context(), sessionID))
		}
		c.Next()
	}
}

// GetSession returns the verified session claims, if any
func GetSession(c *gin.Context) (*auth.SessionClaims, bool) {
	v, ok := c.Get(SessionClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SessionClaims)
	return claims, ok && claims != nil
}

// RequireSession aborts API requests without a verified session with 401
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"Sign in required",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
