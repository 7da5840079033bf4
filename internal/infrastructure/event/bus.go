package event

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handler consumes events delivered by InMemoryBus
type Handler func(ctx context.Context, e Event) error

// InMemoryBus implements Publisher by dispatching events synchronously to
// in-process handlers. It backs local development and tests when no broker
// is configured.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	closed   atomic.Bool
}

// NewInMemoryBus creates a new in-memory event bus
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event types. A handler
// subscribed without types receives every event.
func (b *InMemoryBus) Subscribe(handler Handler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		eventTypes = []string{"*"}
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish delivers events to all matching handlers. Handler failures are
// logged and do not stop delivery.
func (b *InMemoryBus) Publish(ctx context.Context, events ...Event) error {
	if b.closed.Load() {
		return nil
	}
	for _, e := range events {
		b.mu.RLock()
		handlers := append(append([]Handler(nil), b.handlers[e.Type]...), b.handlers["*"]...)
		b.mu.RUnlock()

		for _, h := range handlers {
			if err := b.dispatch(ctx, h, e); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", e.Type),
					zap.String("event_id", e.ID),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Close stops delivery
func (b *InMemoryBus) Close(context.Context) error {
	b.closed.Store(true)
	return nil
}

func (b *InMemoryBus) dispatch(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", e.Type),
				zap.Any("panic", r),
			)
		}
	}()
	return h(ctx, e)
}

// LogHandler returns a handler that writes each event to the logger at debug level
func LogHandler(logger *zap.Logger) Handler {
	return func(_ context.Context, e Event) error {
		logger.Debug("analytics event",
			zap.String("event_type", e.Type),
			zap.String("subject", e.Subject),
			zap.Any("attributes", e.Attributes),
		)
		return nil
	}
}

var _ Publisher = (*InMemoryBus)(nil)
