package cart

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiescence window measured from the last mutation
const DefaultDebounce = 500 * time.Millisecond

// Syncer pushes a full cart snapshot to the server (replace, not patch)
type Syncer interface {
	SyncCart(ctx context.Context, snapshot map[string]int) error
}

// PriceLookup resolves the current offer price for a product
type PriceLookup interface {
	OfferPrice(productID string) (int64, bool)
}

// Cart holds the client-resident product->quantity mapping and schedules a
// trailing-debounce sync after every mutation. Mutations never block on
// network I/O; the snapshot travels on the timer goroutine.
type Cart struct {
	mu       sync.Mutex
	userID   string
	items    map[string]int
	syncer   Syncer
	debounce time.Duration
	timer    *time.Timer
	logger   *zap.Logger
}

// New creates a cart for the given principal. An empty userID means the
// user is not authenticated and the cart stays local-only.
func New(userID string, syncer Syncer, debounce time.Duration) *Cart {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Cart{
		userID:   userID,
		items:    make(map[string]int),
		syncer:   syncer,
		debounce: debounce,
		logger:   util.GetLogger(),
	}
}

// AddItem increments the quantity by 1, creating the entry if absent
func (c *Cart) AddItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(productID, c.items[productID]+1)
	c.scheduleSyncLocked()
}

// RemoveItem decrements the quantity by 1, deleting the entry at zero
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(productID, c.items[productID]-1)
	c.scheduleSyncLocked()
}

// setLocked enforces that entries with quantity <= 0 never exist
func (c *Cart) setLocked(productID string, quantity int) {
	if quantity <= 0 {
		delete(c.items, productID)
		return
	}
	c.items[productID] = quantity
}

// scheduleSyncLocked rearms the debounce timer; rapid mutations coalesce
// into one sync carrying the final snapshot
func (c *Cart) scheduleSyncLocked() {
	if c.userID == "" || c.syncer == nil {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.sync)
}

// sync sends the current snapshot. Failures are logged and swallowed; the
// next mutation's debounce retries with the latest state.
func (c *Cart) sync() {
	snapshot := c.Snapshot()

	if err := c.syncer.SyncCart(context.Background(), snapshot); err != nil {
		util.CartSyncFailuresTotal.Inc()
		c.logger.Warn("Cart sync failed",
			zap.String("user_id", c.userID),
			zap.Error(err))
		return
	}

	util.CartSyncsTotal.Inc()
}

// Flush cancels any pending debounce and syncs the current snapshot now
func (c *Cart) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	snapshot := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		snapshot[id] = qty
	}
	c.mu.Unlock()

	if c.userID == "" || c.syncer == nil {
		return nil
	}
	return c.syncer.SyncCart(ctx, snapshot)
}

// Close stops any pending sync timer
func (c *Cart) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Snapshot returns a copy of the full product->quantity mapping
func (c *Cart) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		snapshot[id] = qty
	}
	return snapshot
}

// ItemCount returns the sum of all quantities
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, qty := range c.items {
		total += qty
	}
	return total
}

// Amount returns the display total against the current catalog. It can
// drift from the charged amount; authoritative pricing happens at order
// creation. Products missing from the catalog are skipped.
func (c *Cart) Amount(catalog PriceLookup) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for id, qty := range c.items {
		if price, ok := catalog.OfferPrice(id); ok {
			total += price * int64(qty)
		}
	}
	return total
}
