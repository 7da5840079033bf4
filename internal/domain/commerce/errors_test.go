package commerce

import (
	"errors"
	"fmt"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type rejected struct{ msg string }

func (r rejected) Error() string       { return "rejected: " + r.msg }
func (r rejected) UserMessage() string { return r.msg }
func (r rejected) Unwrap() error       { return ErrPlatformUserError }

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *shared.DomainError
	}{
		{"credentials", fmt.Errorf("login: %w", ErrInvalidCredentials), shared.ErrInvalidCredentials},
		{"token", ErrInvalidCustomerToken, shared.ErrUnauthorized},
		{"not configured", ErrPlatformNotConfigured, shared.ErrNotConfigured},
		{"user error", rejected{msg: "Quantity must be positive"}, shared.ErrInvalidInput},
		{"unavailable", ErrPlatformUnavailable, shared.ErrUpstream},
		{"unknown", errors.New("boom"), shared.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestToDomainError_KeepsUserMessage(t *testing.T) {
	err := ToDomainError(rejected{msg: "Email has already been taken"})
	assert.Equal(t, "Email has already been taken", err.Error())
}

func TestToDomainError_PassesThrough(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.Same(t, shared.ErrNotFound, ToDomainError(shared.ErrNotFound))
}
