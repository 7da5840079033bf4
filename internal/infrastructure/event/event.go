// Package event publishes storefront analytics events such as cart additions,
// customer logins and web vitals. Events are fire-and-forget: a failed
// publish is logged and never fails the request that produced it.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the storefront
const (
	TypeCartAdd        = "cart.add"
	TypeCartUpdate     = "cart.update"
	TypeCartRemove     = "cart.remove"
	TypeCustomerLogin  = "customer.login"
	TypeCustomerLogout = "customer.logout"
	TypeCustomerSignup = "customer.register"
	TypeVitalRecorded  = "vital.recorded"
	TypeCacheRevalid   = "cache.revalidated"
)

// Event is a single analytics record
type Event struct {
	ID         string
	Type       string
	Subject    string // partition key, e.g. a cart or product ID
	SessionID  string
	Attributes map[string]string
	OccurredAt time.Time
}

// New creates an event with a fresh ID stamped with the current time
func New(eventType, subject string, attributes map[string]string) Event {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Subject:    subject,
		Attributes: attributes,
		OccurredAt: time.Now().UTC(),
	}
}

type sessionKey struct{}

// WithSessionID stores the shopper's analytics session on the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionIDFromContext returns the analytics session stored by WithSessionID
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// NewFromContext is New with the session taken from ctx
func NewFromContext(ctx context.Context, eventType, subject string, attributes map[string]string) Event {
	e := New(eventType, subject, attributes)
	e.SessionID = SessionIDFromContext(ctx)
	return e
}

// Publisher delivers analytics events
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close(ctx context.Context) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }

// Close implements Publisher
func (NoopPublisher) Close(context.Context) error { return nil }

var _ Publisher = NoopPublisher{}
