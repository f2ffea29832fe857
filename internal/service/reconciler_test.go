package service

import (
	"context"
	"testing"

	"storefront-service/internal/gateway"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingGatewayOrder(t *testing.T, store *fakeStore, orderID, userID string) {
	t.Helper()
	err := store.CreateOrder(context.Background(), &models.Order{
		ID:          orderID,
		UserID:      userID,
		AddressID:   "addr-1",
		Amount:      255,
		PaymentMode: models.PaymentModeGateway,
	}, []models.OrderItem{{ProductID: "prod-a", Quantity: 2}})
	require.NoError(t, err)
}

func TestPaymentSucceededConfirmsOrderAndClearsCart(t *testing.T) {
	store := newFakeStore()
	carts := newFakeCarts()
	pendingGatewayOrder(t, store, "order-1", "user-1")
	require.NoError(t, carts.ReplaceCart(context.Background(), "user-1", map[string]int{"prod-a": 2}))

	resolver := &fakeResolver{sessions: map[string]*gateway.SessionMetadata{
		"pi_123": {OrderID: "order-1", UserID: "user-1"},
	}}
	events := &fakePublisher{}
	r := NewReconciler(store, carts, resolver, events)

	err := r.HandleEvent(context.Background(), PaymentSucceeded, "pi_123")
	require.NoError(t, err)

	order := store.getOrder("order-1")
	require.NotNil(t, order)
	assert.True(t, order.Paid)
	assert.Empty(t, carts.cart("user-1"))

	require.Len(t, events.confirmed, 1)
	assert.Equal(t, "order-1", events.confirmed[0].OrderID)
}

func TestPaymentSucceededRedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	carts := newFakeCarts()
	pendingGatewayOrder(t, store, "order-1", "user-1")

	resolver := &fakeResolver{sessions: map[string]*gateway.SessionMetadata{
		"pi_123": {OrderID: "order-1", UserID: "user-1"},
	}}
	r := NewReconciler(store, carts, resolver, &fakePublisher{})

	require.NoError(t, r.HandleEvent(context.Background(), PaymentSucceeded, "pi_123"))
	require.NoError(t, r.HandleEvent(context.Background(), PaymentSucceeded, "pi_123"))

	order := store.getOrder("order-1")
	require.NotNil(t, order)
	assert.True(t, order.Paid)
	assert.Empty(t, carts.cart("user-1"))
	assert.Equal(t, 1, store.orderCount())
}

func TestPaymentFailedDeletesOrder(t *testing.T) {
	store := newFakeStore()
	pendingGatewayOrder(t, store, "order-1", "user-1")

	resolver := &fakeResolver{sessions: map[string]*gateway.SessionMetadata{
		"pi_123": {OrderID: "order-1", UserID: "user-1"},
	}}
	events := &fakePublisher{}
	r := NewReconciler(store, newFakeCarts(), resolver, events)

	err := r.HandleEvent(context.Background(), PaymentFailed, "pi_123")
	require.NoError(t, err)

	assert.Nil(t, store.getOrder("order-1"))
	require.Len(t, events.voided, 1)
}

func TestPaymentFailedRedeliveryIsNoOp(t *testing.T) {
	store := newFakeStore()
	pendingGatewayOrder(t, store, "order-1", "user-1")

	resolver := &fakeResolver{sessions: map[string]*gateway.SessionMetadata{
		"pi_123": {OrderID: "order-1", UserID: "user-1"},
	}}
	r := NewReconciler(store, newFakeCarts(), resolver, &fakePublisher{})

	require.NoError(t, r.HandleEvent(context.Background(), PaymentFailed, "pi_123"))

	// delete-if-exists: the second delivery finds nothing and succeeds
	require.NoError(t, r.HandleEvent(context.Background(), PaymentFailed, "pi_123"))
	assert.Equal(t, 0, store.orderCount())
}

func TestUnresolvedSessionIsBenignNoOp(t *testing.T) {
	store := newFakeStore()
	pendingGatewayOrder(t, store, "order-1", "user-1")

	r := NewReconciler(store, newFakeCarts(), &fakeResolver{sessions: map[string]*gateway.SessionMetadata{}}, &fakePublisher{})

	err := r.HandleEvent(context.Background(), PaymentSucceeded, "pi_unrelated")
	require.NoError(t, err)

	order := store.getOrder("order-1")
	require.NotNil(t, order)
	assert.False(t, order.Paid)
}

func TestUnknownEventKindAckedWithoutAction(t *testing.T) {
	store := newFakeStore()
	pendingGatewayOrder(t, store, "order-1", "user-1")

	resolver := &fakeResolver{}
	r := NewReconciler(store, newFakeCarts(), resolver, &fakePublisher{})

	err := r.HandleEvent(context.Background(), PaymentEventKind("customer.created"), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, 0, resolver.calls)
	assert.False(t, store.getOrder("order-1").Paid)
}
