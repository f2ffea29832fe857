package service

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/gateway"
	"storefront-service/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	orders []*models.Order
	items  map[string][]models.OrderItem

	createErr error
	paidErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string][]models.OrderItem)}
}

func (s *fakeStore) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order.CreatedAt = time.Now()
	stored := *order
	s.orders = append(s.orders, &stored)
	s.items[order.ID] = append([]models.OrderItem(nil), items...)
	return nil
}

func (s *fakeStore) MarkOrderPaid(_ context.Context, orderID string) error {
	if s.paidErr != nil {
		return s.paidErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// unconditional set, like the SQL UPDATE: missing rows are a no-op
	for _, order := range s.orders {
		if order.ID == orderID {
			order.Paid = true
		}
	}
	return nil
}

func (s *fakeStore) DeleteOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.orders[:0]
	for _, order := range s.orders {
		if order.ID != orderID {
			kept = append(kept, order)
		}
	}
	s.orders = kept
	delete(s.items, orderID)
	return nil
}

func (s *fakeStore) GetOrdersByUserID(_ context.Context, userID string) ([]models.OrderDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var details []models.OrderDetail
	for i := len(s.orders) - 1; i >= 0; i-- {
		order := s.orders[i]
		if order.UserID != userID {
			continue
		}
		if order.PaymentMode == models.PaymentModeCOD || order.Paid {
			details = append(details, models.OrderDetail{Order: *order})
		}
	}
	return details, nil
}

func (s *fakeStore) GetAllOrders(_ context.Context) ([]models.OrderDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var details []models.OrderDetail
	for i := len(s.orders) - 1; i >= 0; i-- {
		order := s.orders[i]
		if order.PaymentMode == models.PaymentModeCOD || order.Paid {
			details = append(details, models.OrderDetail{Order: *order})
		}
	}
	return details, nil
}

func (s *fakeStore) getOrder(orderID string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			copied := *order
			return &copied
		}
	}
	return nil
}

func (s *fakeStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakeCatalog struct {
	products map[string]models.Product
}

func (c *fakeCatalog) GetProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	var found []models.Product
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := c.products[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

type fakeCarts struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[string]map[string]int)}
}

func (c *fakeCarts) ReplaceCart(_ context.Context, userID string, items map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make(map[string]int, len(items))
	for id, qty := range items {
		copied[id] = qty
	}
	c.carts[userID] = copied
	return nil
}

func (c *fakeCarts) ClearCart(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carts[userID] = map[string]int{}
	return nil
}

func (c *fakeCarts) cart(userID string) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.carts[userID]
}

type fakeCheckout struct {
	url     string
	err     error
	calls   int
	lastReq gateway.CheckoutSessionRequest
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, req gateway.CheckoutSessionRequest) (*gateway.CheckoutSession, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.CheckoutSession{SessionID: "cs_test_1", URL: f.url}, nil
}

type fakeResolver struct {
	sessions map[string]*gateway.SessionMetadata
	err      error
	calls    int
}

func (f *fakeResolver) ResolveSessionByPaymentReference(_ context.Context, paymentRef string) (*gateway.SessionMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[paymentRef], nil
}

type fakePublisher struct {
	mu        sync.Mutex
	placed    []*models.OrderPlacedEvent
	confirmed []*models.OrderConfirmedEvent
	voided    []*models.OrderVoidedEvent
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, event *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, event)
	return nil
}

func (p *fakePublisher) PublishOrderConfirmed(_ context.Context, event *models.OrderConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, event)
	return nil
}

func (p *fakePublisher) PublishOrderVoided(_ context.Context, event *models.OrderVoidedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voided = append(p.voided, event)
	return nil
}
