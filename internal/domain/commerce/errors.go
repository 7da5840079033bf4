package commerce

import (
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrPlatformNotConfigured   = errors.New("commerce: platform not configured")
	ErrPlatformUnavailable     = errors.New("commerce: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("commerce: platform request failed")
	ErrPlatformInvalidResponse = errors.New("commerce: invalid platform response")
	ErrPlatformUserError       = errors.New("commerce: platform rejected input")
	ErrInvalidCustomerToken    = errors.New("commerce: invalid customer access token")
	ErrInvalidCredentials      = errors.New("commerce: unknown email or password")
)

// UserMessage extracts the shopper-facing message from a rejected mutation,
// or "" when err carries none.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return ""
}

// ToDomainError translates platform errors into shared domain errors. The
// original error is kept as the cause for logging.
func ToDomainError(err error) error {
	var de *shared.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &de):
		return err
	case errors.Is(err, ErrInvalidCredentials):
		return shared.ErrInvalidCredentials.Wrap(err)
	case errors.Is(err, ErrInvalidCustomerToken):
		return shared.ErrUnauthorized.Wrap(err)
	case errors.Is(err, ErrPlatformNotConfigured):
		return shared.ErrNotConfigured.Wrap(err)
	case errors.Is(err, ErrPlatformUserError):
		if msg := UserMessage(err); msg != "" {
			return shared.ErrInvalidInput.WithMessage(msg).Wrap(err)
		}
		return shared.ErrInvalidInput.Wrap(err)
	default:
		return shared.ErrUpstream.Wrap(err)
	}
}
