// Package customer signs shoppers in against the platform's customer
// accounts and wraps the resulting access token in a session cookie.
package customer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/ecommerce"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProviderPassword labels sessions created from email and password
const ProviderPassword = "password"

// MultipassSigner issues Multipass tokens for external identities
type MultipassSigner interface {
	Token(customer ecommerce.MultipassCustomer) (string, error)
}

// Service handles customer authentication and account reads
type Service struct {
	accounts    commerce.CustomerAccounts
	sessions    *auth.SessionService
	revocations auth.RevocationList
	multipass   MultipassSigner
	events      event.Publisher
	metrics     *telemetry.StoreMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new customer service. multipass may be nil, in which
// case OAuth sign-in reports ErrNotConfigured.
func NewService(
	accounts commerce.CustomerAccounts,
	sessions *auth.SessionService,
	revocations auth.RevocationList,
	multipass MultipassSigner,
	events event.Publisher,
	metrics *telemetry.StoreMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:    accounts,
		sessions:    sessions,
		revocations: revocations,
		multipass:   multipass,
		events:      events,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Login exchanges email and password for a session
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "login")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAuthProvider, ProviderPassword)

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Email and password are required")
	}
	s.logger.Debug("Login attempt", zap.String("email_ref", emailRef(email)))

	started := time.Now()
	token, err := s.accounts.CreateCustomerAccessToken(ctx, email, input.Password)
	s.metrics.ObserveUpstream(ctx, "customerAccessTokenCreate", started, err)
	if err != nil {
		s.metrics.CustomerLogin(ctx, ProviderPassword, err)
		if errors.Is(err, commerce.ErrInvalidCredentials) || errors.Is(err, commerce.ErrInvalidCustomerToken) {
			s.logger.Warn("Invalid credentials", zap.String("email_ref", emailRef(email)))
			return nil, shared.ErrInvalidCredentials.Wrap(err)
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to create customer access token", zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	result, err := s.issue(ctx, *token, email, ProviderPassword)
	s.metrics.CustomerLogin(ctx, ProviderPassword, err)
	return result, err
}

// Register creates an account and signs the new customer in
func (s *Service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "register")
	defer span.End()

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Email and password are required")
	}

	started := time.Now()
	customer, err := s.accounts.CreateCustomer(ctx, commerce.CustomerCreateInput{
		Email:            email,
		Password:         input.Password,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		AcceptsMarketing: input.AcceptsMarketing,
	})
	s.metrics.ObserveUpstream(ctx, "customerCreate", started, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Failed to register customer", zap.String("email_ref", emailRef(email)), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	subject := emailRef(email)
	if customer != nil && customer.ID != "" {
		subject = customer.ID
	}
	s.publish(ctx, event.TypeCustomerSignup, subject, map[string]string{
		"accepts_marketing": strconv.FormatBool(input.AcceptsMarketing),
	})
	return s.Login(ctx, LoginInput{Email: email, Password: input.Password})
}

// OAuthLogin signs in a customer asserted by an external identity provider,
// bridged to the platform with a Multipass token.
func (s *Service) OAuthLogin(ctx context.Context, profile *commerce.ExternalProfile, returnTo string) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "oauth_login")
	defer span.End()

	if s.multipass == nil {
		return nil, shared.ErrNotConfigured.WithMessage("External sign-in is not configured")
	}
	if profile == nil || profile.Email == "" {
		return nil, shared.ErrInvalidInput.WithMessage("The identity provider did not return an email address")
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrAuthProvider, profile.Provider)

	email := normalizeEmail(profile.Email)
	mpToken, err := s.multipass.Token(ecommerce.MultipassCustomer{
		Email:      email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Identifier: profile.Provider + ":" + profile.Subject,
		ReturnTo:   returnTo,
	})
	if err != nil {
		s.metrics.CustomerLogin(ctx, profile.Provider, err)
		s.logger.Error("Failed to sign multipass token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to sign in").Wrap(err)
	}

	started := time.Now()
	token, err := s.accounts.CreateCustomerAccessTokenWithMultipass(ctx, mpToken)
	s.metrics.ObserveUpstream(ctx, "customerAccessTokenCreateWithMultipass", started, err)
	if err != nil {
		s.metrics.CustomerLogin(ctx, profile.Provider, err)
		telemetry.RecordError(span, err)
		s.logger.Error("Multipass sign-in rejected", zap.String("email_ref", emailRef(email)), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	result, err := s.issue(ctx, *token, email, profile.Provider)
	s.metrics.CustomerLogin(ctx, profile.Provider, err)
	return result, err
}

func (s *Service) issue(ctx context.Context, token commerce.CustomerAccessToken, email, provider string) (*LoginResult, error) {
	session, err := s.sessions.Issue(token, email, provider)
	if err != nil {
		s.logger.Error("Failed to issue session", zap.String("email_ref", emailRef(email)), zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.ErrUnauthorized.WithMessage("Customer access token has expired").Wrap(err)
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session").Wrap(err)
	}

	s.logger.Info("Customer signed in",
		zap.String("session_id", session.ID),
		zap.String("email_ref", emailRef(email)),
		zap.String("provider", provider))
	s.publish(event.WithSessionID(ctx, session.ID), event.TypeCustomerLogin, emailRef(email), map[string]string{"provider": provider})

	return &LoginResult{
		SessionID:    session.ID,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		Email:        email,
		Provider:     provider,
	}, nil
}

// Authenticate verifies a session cookie and returns its claims. Revoked
// sessions are rejected; a failing revocation store is logged and ignored.
func (s *Service) Authenticate(ctx context.Context, sessionToken string) (*auth.SessionClaims, error) {
	claims, err := s.sessions.Parse(sessionToken)
	if err != nil {
		return nil, shared.ErrUnauthorized.Wrap(err)
	}
	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("Revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, shared.ErrUnauthorized.Wrap(auth.ErrTokenRevoked)
		}
	}
	return claims, nil
}

// Logout revokes the session and, best effort, the platform access token
func (s *Service) Logout(ctx context.Context, claims *auth.SessionClaims) error {
	if claims == nil {
		return nil
	}
	if err := s.accounts.DeleteCustomerAccessToken(ctx, claims.CustomerToken); err != nil {
		s.logger.Warn("Failed to delete customer access token", zap.Error(err))
	}
	if s.revocations != nil && claims.ID != "" {
		if ttl := claims.RemainingTTL(s.now()); ttl > 0 {
			if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
				s.logger.Error("Failed to revoke session", zap.String("session_id", claims.ID), zap.Error(err))
				return shared.ErrUpstream.WithMessage("Failed to sign out").Wrap(err)
			}
		}
	}
	s.publish(ctx, event.TypeCustomerLogout, emailRef(claims.Email), map[string]string{"provider": claims.Provider})
	return nil
}

// Recover sends a password reset email. Unknown addresses are not reported
// to the caller.
func (s *Service) Recover(ctx context.Context, input RecoverInput) error {
	email := normalizeEmail(input.Email)
	if email == "" {
		return shared.ErrInvalidInput.WithMessage("Email is required")
	}
	err := s.accounts.RecoverCustomer(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, commerce.ErrPlatformUserError):
		s.logger.Debug("Password recovery rejected", zap.String("email_ref", emailRef(email)), zap.Error(err))
		return nil
	default:
		s.logger.Error("Failed to request password recovery", zap.Error(err))
		return commerce.ToDomainError(err)
	}
}

// Account returns the signed-in customer with recent orders
func (s *Service) Account(ctx context.Context, customerToken string) (*AccountResponse, error) {
	if customerToken == "" {
		return nil, shared.ErrUnauthorized
	}
	started := time.Now()
	customer, err := s.accounts.GetCustomer(ctx, customerToken)
	s.metrics.ObserveUpstream(ctx, "getCustomer", started, err)
	if err != nil {
		if errors.Is(err, commerce.ErrInvalidCustomerToken) {
			return nil, shared.ErrUnauthorized.WithMessage("Your session has expired").Wrap(err)
		}
		s.logger.Error("Failed to load customer", zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	if customer == nil {
		return nil, shared.ErrUnauthorized.WithMessage("Your session has expired")
	}
	if customer.Orders == nil {
		customer.Orders = []commerce.Order{}
	}
	return &AccountResponse{Customer: customer, DisplayName: customer.DisplayName()}, nil
}

func (s *Service) publish(ctx context.Context, eventType, subject string, attrs map[string]string) {
	if err := s.events.Publish(ctx, event.NewFromContext(ctx, eventType, subject, attrs)); err != nil {
		s.logger.Warn("Failed to publish customer event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailRef identifies a customer in logs and analytics without the address
func emailRef(email string) string {
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:8])
}
