package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentEventKind is the decoded kind of a gateway webhook event
type PaymentEventKind string

const (
	PaymentSucceeded PaymentEventKind = "payment-succeeded"
	PaymentFailed    PaymentEventKind = "payment-failed"
)

// Reconciler applies asynchronous payment outcomes to orders and carts.
// Gateway orders move pending -> confirmed or pending -> voided, one-shot.
// Events may arrive duplicated or out of order, so every handler is an
// unconditional set or a delete-if-exists rather than a read-modify-write.
type Reconciler struct {
	orders   OrderStore
	carts    CartStore
	resolver SessionResolver
	events   EventPublisher
	logger   *zap.Logger
}

// NewReconciler creates a webhook reconciler
func NewReconciler(
	orders OrderStore,
	carts CartStore,
	resolver SessionResolver,
	events EventPublisher,
) *Reconciler {
	return &Reconciler{
		orders:   orders,
		carts:    carts,
		resolver: resolver,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// HandleEvent dispatches a verified webhook event. Unknown kinds are
// informational and acknowledged without action. paymentRef is the
// gateway's payment-intent identifier from the event subject.
func (r *Reconciler) HandleEvent(ctx context.Context, kind PaymentEventKind, paymentRef string) error {
	ctx, span := util.StartSpan(ctx, "Reconciler.HandleEvent")
	defer span.End()

	start := time.Now()
	defer func() {
		util.WebhookProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	switch kind {
	case PaymentSucceeded:
		return r.confirmOrder(ctx, paymentRef)
	case PaymentFailed:
		return r.voidOrder(ctx, paymentRef)
	default:
		r.logger.Debug("Ignoring webhook event kind",
			zap.String("kind", string(kind)))
		return nil
	}
}

// confirmOrder marks the order paid and clears the user's cart. Re-delivery
// re-sets paid=true and re-clears an already empty cart, both harmless.
func (r *Reconciler) confirmOrder(ctx context.Context, paymentRef string) error {
	meta, err := r.resolver.ResolveSessionByPaymentReference(ctx, paymentRef)
	if err != nil {
		return fmt.Errorf("failed to resolve checkout session: %w", err)
	}
	if meta == nil {
		r.logger.Info("No checkout session for payment reference, ignoring",
			zap.String("payment_ref", paymentRef))
		return nil
	}

	if err := r.orders.MarkOrderPaid(ctx, meta.OrderID); err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", meta.OrderID, err)
	}

	if err := r.carts.ClearCart(ctx, meta.UserID); err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", meta.UserID, err)
	}

	util.OrdersConfirmedTotal.Inc()
	util.CartsClearedTotal.Inc()
	r.logger.Info("Order confirmed",
		zap.String("order_id", meta.OrderID),
		zap.String("user_id", meta.UserID))

	event := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now(),
		},
		OrderID: meta.OrderID,
		UserID:  meta.UserID,
	}
	if err := r.events.PublishOrderConfirmed(ctx, event); err != nil {
		r.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
	}

	return nil
}

// voidOrder deletes the order behind a failed payment; it never represented
// a valid purchase. Deleting an already deleted order is a no-op.
func (r *Reconciler) voidOrder(ctx context.Context, paymentRef string) error {
	meta, err := r.resolver.ResolveSessionByPaymentReference(ctx, paymentRef)
	if err != nil {
		return fmt.Errorf("failed to resolve checkout session: %w", err)
	}
	if meta == nil {
		r.logger.Info("No checkout session for payment reference, ignoring",
			zap.String("payment_ref", paymentRef))
		return nil
	}

	if err := r.orders.DeleteOrder(ctx, meta.OrderID); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", meta.OrderID, err)
	}

	util.OrdersVoidedTotal.Inc()
	r.logger.Info("Order voided after failed payment",
		zap.String("order_id", meta.OrderID),
		zap.String("user_id", meta.UserID))

	event := &models.OrderVoidedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderVoided,
			Timestamp: time.Now(),
		},
		OrderID: meta.OrderID,
		UserID:  meta.UserID,
		Reason:  "payment_failed",
	}
	if err := r.events.PublishOrderVoided(ctx, event); err != nil {
		r.logger.Error("Failed to publish OrderVoided event", zap.Error(err))
	}

	return nil
}
