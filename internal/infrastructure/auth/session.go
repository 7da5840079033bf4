package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrMissingSecret    = errors.New("session secret is required")
)

// SessionClaims is the payload of the customer session cookie
type SessionClaims struct {
	jwt.RegisteredClaims
	CustomerToken string `json:"ctk"`
	Email         string `json:"email,omitempty"`
	Provider      string `json:"prv,omitempty"`
}

// RemainingTTL returns the time until the session expires
func (c *SessionClaims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := c.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// Session is a signed session token ready to be set as a cookie
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// SessionService issues and verifies customer session tokens (HS256)
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(cfg config.SessionConfig) (*SessionService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a session for a platform customer token. The session never
// outlives the platform token.
func (s *SessionService) Issue(token commerce.CustomerAccessToken, email, provider string) (*Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	if !token.ExpiresAt.IsZero() && token.ExpiresAt.Before(expires) {
		expires = token.ExpiresAt
	}
	if !expires.After(now) {
		return nil, ErrExpiredToken
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expires),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		CustomerToken: token.Token,
		Email:         email,
		Provider:      provider,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{ID: claims.ID, Token: signed, ExpiresAt: expires}, nil
}

// Parse verifies a session token and returns its claims
func (s *SessionService) Parse(tokenString string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.CustomerToken == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// TTL returns the configured maximum session lifetime
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
