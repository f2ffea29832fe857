package service

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]models.Product{
		"prod-a": {ID: "prod-a", Name: "Apples", OfferPrice: 100},
		"prod-b": {ID: "prod-b", Name: "Bananas", OfferPrice: 50},
	}}
}

func TestPlaceOrderComputesAmountServerSide(t *testing.T) {
	store := newFakeStore()
	svc := NewOrderService(store, testCatalog(), &fakeCheckout{}, &fakePublisher{})

	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:    "user-1",
		AddressID: "addr-1",
		Items: []OrderItemRequest{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 1},
		},
		PaymentMode: models.PaymentModeCOD,
	})
	require.NoError(t, err)

	order := store.getOrder(resp.OrderID)
	require.NotNil(t, order)

	// subtotal 250, tax floor(250*0.02)=5
	assert.Equal(t, int64(255), order.Amount)
	assert.Equal(t, models.PaymentModeCOD, order.PaymentMode)
}

func TestPlaceOrderRejectsMissingAddress(t *testing.T) {
	svc := NewOrderService(newFakeStore(), testCatalog(), &fakeCheckout{}, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		Items:       []OrderItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMode: models.PaymentModeCOD,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	svc := NewOrderService(newFakeStore(), testCatalog(), &fakeCheckout{}, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		AddressID:   "addr-1",
		PaymentMode: models.PaymentModeCOD,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlaceOrderRejectsUnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := NewOrderService(store, testCatalog(), &fakeCheckout{}, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:    "user-1",
		AddressID: "addr-1",
		Items: []OrderItemRequest{
			{ProductID: "prod-a", Quantity: 1},
			{ProductID: "prod-deleted", Quantity: 1},
		},
		PaymentMode: models.PaymentModeCOD,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderGatewayReturnsCheckoutURL(t *testing.T) {
	store := newFakeStore()
	checkout := &fakeCheckout{url: "https://checkout.example/cs_test_1"}
	svc := NewOrderService(store, testCatalog(), checkout, &fakePublisher{})

	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:    "user-1",
		AddressID: "addr-1",
		Items: []OrderItemRequest{
			{ProductID: "prod-a", Quantity: 2},
		},
		PaymentMode: models.PaymentModeGateway,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_test_1", resp.CheckoutURL)

	// the order is durable before the session opens, and its identifier
	// travels as session metadata
	order := store.getOrder(resp.OrderID)
	require.NotNil(t, order)
	assert.False(t, order.Paid)
	assert.Equal(t, resp.OrderID, checkout.lastReq.OrderID)
	assert.Equal(t, "user-1", checkout.lastReq.UserID)

	require.Len(t, checkout.lastReq.Lines, 1)
	assert.Equal(t, int64(100), checkout.lastReq.Lines[0].UnitPrice)
	assert.Equal(t, 2, checkout.lastReq.Lines[0].Quantity)
}

func TestPlaceOrderGatewayFailureLeavesOrderPending(t *testing.T) {
	store := newFakeStore()
	checkout := &fakeCheckout{err: errors.New("gateway unreachable")}
	svc := NewOrderService(store, testCatalog(), checkout, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		AddressID:   "addr-1",
		Items:       []OrderItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMode: models.PaymentModeGateway,
	})
	assert.ErrorIs(t, err, ErrPaymentGateway)

	// order persisted, still pending, never marked paid
	require.Equal(t, 1, store.orderCount())
	assert.False(t, store.orders[0].Paid)
}

func TestCODOrderVisibleImmediately(t *testing.T) {
	store := newFakeStore()
	svc := NewOrderService(store, testCatalog(), &fakeCheckout{}, &fakePublisher{})

	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		AddressID:   "addr-1",
		Items:       []OrderItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMode: models.PaymentModeCOD,
	})
	require.NoError(t, err)

	userOrders, err := svc.OrdersForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, userOrders, 1)
	assert.Equal(t, resp.OrderID, userOrders[0].ID)

	sellerOrders, err := svc.OrdersForSeller(context.Background())
	require.NoError(t, err)
	require.Len(t, sellerOrders, 1)
}

func TestPendingGatewayOrderHiddenFromListings(t *testing.T) {
	store := newFakeStore()
	checkout := &fakeCheckout{url: "https://checkout.example/cs_test_1"}
	svc := NewOrderService(store, testCatalog(), checkout, &fakePublisher{})

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		AddressID:   "addr-1",
		Items:       []OrderItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMode: models.PaymentModeGateway,
	})
	require.NoError(t, err)

	// pending is a valid long-lived state: the order persists with no
	// expiry, but stays invisible to buyer history and the seller queue
	require.Equal(t, 1, store.orderCount())

	userOrders, err := svc.OrdersForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, userOrders)

	sellerOrders, err := svc.OrdersForSeller(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sellerOrders)
}

func TestPlaceOrderPublishesOrderPlaced(t *testing.T) {
	store := newFakeStore()
	events := &fakePublisher{}
	svc := NewOrderService(store, testCatalog(), &fakeCheckout{}, events)

	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		UserID:      "user-1",
		AddressID:   "addr-1",
		Items:       []OrderItemRequest{{ProductID: "prod-b", Quantity: 3}},
		PaymentMode: models.PaymentModeCOD,
	})
	require.NoError(t, err)

	require.Len(t, events.placed, 1)
	assert.Equal(t, resp.OrderID, events.placed[0].OrderID)
	assert.Equal(t, models.EventTypeOrderPlaced, events.placed[0].EventType)
	assert.Equal(t, int64(153), events.placed[0].Amount)
}
