package service

import (
	"context"

	"storefront-service/internal/gateway"
	"storefront-service/internal/models"
)

// OrderStore persists orders. Mutations are single atomic sets (mark paid,
// delete) so concurrent and duplicate webhook deliveries stay safe.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	MarkOrderPaid(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.OrderDetail, error)
	GetAllOrders(ctx context.Context) ([]models.OrderDetail, error)
}

// Catalog is the read-only product catalog
type Catalog interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

// CartStore holds the server-side mirror of user carts
type CartStore interface {
	ReplaceCart(ctx context.Context, userID string, items map[string]int) error
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutProvider opens hosted checkout sessions
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req gateway.CheckoutSessionRequest) (*gateway.CheckoutSession, error)
}

// SessionResolver maps a webhook payment reference back to the checkout
// session's order/user metadata. A missing session resolves to (nil, nil).
type SessionResolver interface {
	ResolveSessionByPaymentReference(ctx context.Context, paymentRef string) (*gateway.SessionMetadata, error)
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error
	PublishOrderVoided(ctx context.Context, event *models.OrderVoidedEvent) error
}
