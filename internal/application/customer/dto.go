package customer

import (
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
)

// LoginInput signs a customer in with email and password
type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=254"`
	Password string `json:"password" form:"password" binding:"required,min=1,max=200"`
}

// RegisterInput creates a customer account
type RegisterInput struct {
	Email            string `json:"email" form:"email" binding:"required,email,max=254"`
	Password         string `json:"password" form:"password" binding:"required,min=5,max=40"`
	FirstName        string `json:"first_name" form:"first_name" binding:"max=100"`
	LastName         string `json:"last_name" form:"last_name" binding:"max=100"`
	AcceptsMarketing bool   `json:"accepts_marketing" form:"accepts_marketing"`
}

// RecoverInput requests a password reset email
type RecoverInput struct {
	Email string `json:"email" form:"email" binding:"required,email,max=254"`
}

// LoginResult is a freshly issued session
type LoginResult struct {
	SessionID    string    `json:"-"`
	SessionToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	Email        string    `json:"email"`
	Provider     string    `json:"provider"`
}

// AccountResponse is the signed-in customer's account page data
type AccountResponse struct {
	Customer    *commerce.Customer `json:"customer"`
	DisplayName string             `json:"display_name"`
}
