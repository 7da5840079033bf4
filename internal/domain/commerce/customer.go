package commerce

import "time"

// CustomerAccessToken is the platform credential for a signed-in customer
type CustomerAccessToken struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token is past its expiry at now
func (t *CustomerAccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Order is a past order shown on the account page
type Order struct {
	ID                string    `json:"id"`
	OrderNumber       int       `json:"orderNumber"`
	ProcessedAt       time.Time `json:"processedAt"`
	TotalPrice        Money     `json:"totalPrice"`
	FulfillmentStatus string    `json:"fulfillmentStatus"`
}

// Customer is a registered shopper
type Customer struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone,omitempty"`
	AcceptsMarketing bool    `json:"acceptsMarketing"`
	Orders           []Order `json:"orders"`
}

// DisplayName returns the full name, or the email when no name is set
func (c *Customer) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.Email
	}
}

// CustomerCreateInput registers a new customer
type CustomerCreateInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	AcceptsMarketing bool   `json:"acceptsMarketing"`
}

// ExternalProfile is an identity asserted by an OAuth provider
type ExternalProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}
