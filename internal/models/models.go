package models

import "time"

// Payment modes
const (
	PaymentModeCOD     = "cash-on-delivery"
	PaymentModeGateway = "gateway"
)

// Product represents a catalog product. The catalog is read-only to this
// service; orders snapshot a computed amount, never a live price reference.
type Product struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Category   string    `db:"category" json:"category"`
	Price      int64     `db:"price" json:"price"`
	OfferPrice int64     `db:"offer_price" json:"offer_price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Address represents a shipping address referenced by orders
type Address struct {
	ID      string `db:"id" json:"id"`
	UserID  string `db:"user_id" json:"user_id"`
	Street  string `db:"street" json:"street"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Zipcode string `db:"zipcode" json:"zipcode"`
	Country string `db:"country" json:"country"`
	Phone   string `db:"phone" json:"phone"`
}

// Order represents a customer order. Amount is immutable after creation;
// only Paid transitions, and only through the webhook reconciler.
type Order struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	AddressID   string    `db:"address_id" json:"address_id"`
	Amount      int64     `db:"amount" json:"amount"`
	PaymentMode string    `db:"payment_mode" json:"payment_mode"`
	Paid        bool      `db:"paid" json:"paid"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents a line item; quantity is fixed at creation
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// OrderLine is a line item populated with its product details
type OrderLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// OrderDetail is an order populated with line items and shipping address,
// as returned by the buyer/seller listing queries
type OrderDetail struct {
	Order
	Items   []OrderLine `json:"items"`
	Address *Address    `json:"address,omitempty"`
}
