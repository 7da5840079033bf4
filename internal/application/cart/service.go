package cart

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Cart actions as reported in metrics
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
)

// Service mutates the shopper's cart. Cart reads are never cached.
type Service struct {
	storefront commerce.Storefront
	events     event.Publisher
	metrics    *telemetry.StoreMetrics
	logger     *zap.Logger
}

// NewService creates a new cart service. metrics may be nil.
func NewService(storefront commerce.Storefront, events event.Publisher, metrics *telemetry.StoreMetrics, logger *zap.Logger) *Service {
	return &Service{
		storefront: storefront,
		events:     events,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetCart returns the cart identified by cartID, or nil when there is no
// cart yet or it no longer exists (e.g. after checkout).
func (s *Service) GetCart(ctx context.Context, cartID string) (*commerce.Cart, error) {
	if cartID == "" {
		return nil, nil
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "get_cart")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCartID, cartID)

	started := time.Now()
	cart, err := s.storefront.GetCart(ctx, cartID)
	s.metrics.ObserveUpstream(ctx, "getCart", started, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to get cart", zap.String("cart_id", cartID), zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	return cart, nil
}

// AddItem adds a variant to the cart, creating a cart first when cartID is
// empty or no longer resolves.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item")
	defer span.End()

	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if strings.TrimSpace(in.MerchandiseID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Missing product variant ID")
	}
	if quantity < 1 || quantity > MaxQuantity {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be between 1 and 999")
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMerchandiseID, in.MerchandiseID,
		telemetry.SpanAttrQuantity, quantity,
	)

	result, err := s.ensureCart(ctx, in.CartID)
	if err != nil {
		s.metrics.CartMutation(ctx, ActionAdd, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCartID, result.Cart.ID)

	started := time.Now()
	cart, err := s.storefront.AddToCart(ctx, result.Cart.ID, []commerce.CartLineInput{
		{MerchandiseID: in.MerchandiseID, Quantity: quantity},
	})
	s.metrics.ObserveUpstream(ctx, "addToCart", started, err)
	s.metrics.CartMutation(ctx, ActionAdd, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to add item to cart",
			zap.String("cart_id", result.Cart.ID),
			zap.String("merchandise_id", in.MerchandiseID),
			zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	result.Cart = cart

	s.publish(ctx, event.TypeCartAdd, cart.ID, map[string]string{
		"merchandise_id": in.MerchandiseID,
		"quantity":       strconv.Itoa(quantity),
		"total_quantity": strconv.Itoa(cart.TotalQuantity),
	})
	return result, nil
}

// ensureCart returns the existing cart or a newly created one
func (s *Service) ensureCart(ctx context.Context, cartID string) (*Result, error) {
	if cartID != "" {
		cart, err := s.GetCart(ctx, cartID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return &Result{Cart: cart}, nil
		}
		s.logger.Debug("Cart no longer exists, creating a new one", zap.String("cart_id", cartID))
	}

	started := time.Now()
	cart, err := s.storefront.CreateCart(ctx)
	s.metrics.ObserveUpstream(ctx, "createCart", started, err)
	if err != nil {
		s.logger.Error("Failed to create cart", zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}
	return &Result{Cart: cart, Created: true}, nil
}

// UpdateItem sets a line's quantity, removing the line when it is zero
func (s *Service) UpdateItem(ctx context.Context, in UpdateItemInput) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "update_item")
	defer span.End()

	if in.CartID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Missing cart ID")
	}
	if in.LineID == "" && in.MerchandiseID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Missing cart line")
	}
	if in.Quantity == nil {
		return nil, shared.ErrInvalidInput.WithMessage("Missing quantity")
	}
	quantity := *in.Quantity
	if quantity < 0 || quantity > MaxQuantity {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be between 0 and 999")
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCartID, in.CartID,
		telemetry.SpanAttrQuantity, quantity,
	)

	cart, err := s.GetCart(ctx, in.CartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, shared.ErrNotFound.WithMessage("Cart not found")
	}

	line, ok := resolveLine(cart, in.LineID, in.MerchandiseID)
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Item not found in cart")
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, in.CartID, line.ID)
	}

	started := time.Now()
	updated, err := s.storefront.UpdateCart(ctx, in.CartID, []commerce.CartLineUpdate{
		{ID: line.ID, MerchandiseID: line.Merchandise.ID, Quantity: quantity},
	})
	s.metrics.ObserveUpstream(ctx, "updateCart", started, err)
	s.metrics.CartMutation(ctx, ActionUpdate, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to update cart line",
			zap.String("cart_id", in.CartID),
			zap.String("line_id", line.ID),
			zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	s.publish(ctx, event.TypeCartUpdate, updated.ID, map[string]string{
		"merchandise_id": line.Merchandise.ID,
		"quantity":       strconv.Itoa(quantity),
	})
	return &Result{Cart: updated}, nil
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, cartID, lineID string) (*Result, error) {
	if cartID == "" || lineID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Missing cart or line ID")
	}

	started := time.Now()
	cart, err := s.storefront.RemoveFromCart(ctx, cartID, []string{lineID})
	s.metrics.ObserveUpstream(ctx, "removeFromCart", started, err)
	s.metrics.CartMutation(ctx, ActionRemove, err)
	if err != nil {
		s.logger.Error("Failed to remove cart line",
			zap.String("cart_id", cartID),
			zap.String("line_id", lineID),
			zap.Error(err))
		return nil, commerce.ToDomainError(err)
	}

	s.publish(ctx, event.TypeCartRemove, cart.ID, map[string]string{"line_id": lineID})
	return &Result{Cart: cart}, nil
}

func resolveLine(cart *commerce.Cart, lineID, merchandiseID string) (commerce.CartLine, bool) {
	if lineID != "" {
		return cart.Line(lineID)
	}
	return cart.LineForMerchandise(merchandiseID)
}

func (s *Service) publish(ctx context.Context, eventType, subject string, attrs map[string]string) {
	if err := s.events.Publish(ctx, event.NewFromContext(ctx, eventType, subject, attrs)); err != nil {
		s.logger.Warn("Failed to publish cart event", zap.String("event_type", eventType), zap.Error(err))
	}
}
