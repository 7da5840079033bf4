package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// ProviderGoogle is the only supported external identity provider
const ProviderGoogle = "google"

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// OAuth errors
var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrStateMismatch   = errors.New("oauth state mismatch")
	ErrEmailUnverified = errors.New("oauth email is not verified")
)

// OAuthProvider runs the authorization code flow against Google and
// resolves the signed-in user's profile.
type OAuthProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewOAuthProvider builds the provider from configuration
func NewOAuthProvider(cfg config.OAuthConfig) (*OAuthProvider, error) {
	name := strings.ToLower(cfg.Provider)
	if name == "" {
		name = ProviderGoogle
	}
	if name != ProviderGoogle {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &OAuthProvider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoints.Google,
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  http.DefaultClient,
	}, nil
}

// Name returns the provider name used in routes
func (p *OAuthProvider) Name() string {
	return p.name
}

// AuthCodeURL returns the consent page URL for a flow
func (p *OAuthProvider) AuthCodeURL(flow Flow) string {
	return p.config.AuthCodeURL(flow.State, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(flow.Verifier))
}

// Exchange trades the authorization code for a token
func (p *OAuthProvider) Exchange(ctx context.Context, code string, flow Flow) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(flow.Verifier))
	if err != nil {
		return nil, fmt.Errorf("oauth code exchange failed: %w", err)
	}
	return tok, nil
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Profile fetches the user's identity. Unverified emails are rejected since
// the email is what links the identity to a shop customer.
func (p *OAuthProvider) Profile(ctx context.Context, tok *oauth2.Token) (*commerce.ExternalProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	client := p.config.Client(ctx, tok)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: HTTP %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, fmt.Errorf("userinfo decode failed: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, ErrEmailUnverified
	}
	return &commerce.ExternalProfile{
		Provider:      p.name,
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
	}, nil
}

// Flow is the per-login secret pair kept in a short-lived cookie between
// the redirect and the callback.
type Flow struct {
	State    string
	Verifier string
}

// NewFlow generates a random state and PKCE verifier
func NewFlow() (Flow, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Flow{}, err
	}
	return Flow{State: hex.EncodeToString(buf), Verifier: oauth2.GenerateVerifier()}, nil
}

// Encode serializes the flow for the state cookie
func (f Flow) Encode() string {
	return f.State + "." + f.Verifier
}

// DecodeFlow parses a state cookie value
func DecodeFlow(raw string) (Flow, error) {
	state, verifier, ok := strings.Cut(raw, ".")
	if !ok || state == "" || verifier == "" {
		return Flow{}, ErrStateMismatch
	}
	return Flow{State: state, Verifier: verifier}, nil
}

// Verify compares the callback's state parameter in constant time
func (f Flow) Verify(state string) error {
	if state == "" || subtle.ConstantTimeCompare([]byte(f.State), []byte(state)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
