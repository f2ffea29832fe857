package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/gateway"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// taxRateBps is the flat tax applied at order creation; integer division
// floors the result
const taxRateBps = 200

// OrderService handles order placement and listing
type OrderService struct {
	store    OrderStore
	catalog  Catalog
	checkout CheckoutProvider
	events   EventPublisher
	logger   *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store OrderStore,
	catalog Catalog,
	checkout CheckoutProvider,
	events EventPublisher,
) *OrderService {
	return &OrderService{
		store:    store,
		catalog:  catalog,
		checkout: checkout,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// OrderItemRequest represents an item in an order
type OrderItemRequest struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	UserID      string
	AddressID   string
	Items       []OrderItemRequest
	PaymentMode string
}

// PlaceOrderResponse represents the result of placing an order.
// CheckoutURL is set only for gateway orders.
type PlaceOrderResponse struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"url,omitempty"`
}

// PlaceOrder creates an order from a cart snapshot. The charged amount is
// computed strictly server-side; client-supplied totals are never read.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if req.AddressID == "" || len(req.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, fmt.Errorf("%w: address and items are required", ErrInvalidRequest)
	}
	if req.PaymentMode != models.PaymentModeCOD && req.PaymentMode != models.PaymentModeGateway {
		util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidRequest, req.PaymentMode)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidRequest, item.ProductID)
		}
	}

	products, err := s.resolveProducts(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("unknown_product").Inc()
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		AddressID:   req.AddressID,
		Amount:      s.calculateAmount(req.Items, products),
		PaymentMode: req.PaymentMode,
		Paid:        false,
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.WithLabelValues(order.PaymentMode).Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("payment_mode", order.PaymentMode),
		zap.Int64("amount", order.Amount))

	s.publishOrderPlaced(ctx, order, req.Items)

	if order.PaymentMode == models.PaymentModeCOD {
		// payment collected out-of-band at delivery; terminal immediately
		return &PlaceOrderResponse{OrderID: order.ID}, nil
	}

	lines := make([]gateway.CheckoutLine, 0, len(req.Items))
	for _, item := range req.Items {
		product := products[item.ProductID]
		lines = append(lines, gateway.CheckoutLine{
			Name:      product.Name,
			UnitPrice: product.OfferPrice,
			Quantity:  item.Quantity,
		})
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, gateway.CheckoutSessionRequest{
		OrderID: order.ID,
		UserID:  order.UserID,
		Lines:   lines,
	})
	if err != nil {
		// order stays pending; a webhook can never arrive for a session
		// that was not created, so it is only visible once re-placed
		util.CheckoutSessionFailuresTotal.Inc()
		s.logger.Error("Checkout session creation failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	util.CheckoutSessionsCreatedTotal.Inc()

	return &PlaceOrderResponse{OrderID: order.ID, CheckoutURL: session.URL}, nil
}

// resolveProducts validates every item against the catalog
func (s *OrderService) resolveProducts(ctx context.Context, items []OrderItemRequest) (map[string]models.Product, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	productMap := make(map[string]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	for _, item := range items {
		if _, ok := productMap[item.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
	}

	return productMap, nil
}

// calculateAmount computes subtotal plus floored tax from catalog offer
// prices
func (s *OrderService) calculateAmount(items []OrderItemRequest, products map[string]models.Product) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += products[item.ProductID].OfferPrice * int64(item.Quantity)
	}
	tax := subtotal * taxRateBps / 10000
	return subtotal + tax
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, items []OrderItemRequest) {
	eventItems := make([]models.OrderItemData, len(items))
	for i, item := range items {
		eventItems[i] = models.OrderItemData{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		Amount:      order.Amount,
		PaymentMode: order.PaymentMode,
		Items:       eventItems,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

// OrdersForUser returns the buyer's order history: cash-on-delivery or
// confirmed-paid orders only, newest first
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.OrdersForUser")
	defer span.End()

	return s.store.GetOrdersByUserID(ctx, userID)
}

// OrdersForSeller returns the fulfillment queue across all users, with the
// same visibility filter as the buyer history
func (s *OrderService) OrdersForSeller(ctx context.Context) ([]models.OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.OrdersForSeller")
	defer span.End()

	return s.store.GetAllOrders(ctx)
}
