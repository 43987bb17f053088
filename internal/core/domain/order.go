package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        int64 `json:"cart_id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	CartID      int64           `json:"cart_id"`
	ProductID   int64           `json:"product_id"`
	ProductName ProductName     `json:"product_name"`
	Price       decimal.Decimal `json:"product_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a purchase placed by a buyer.
type Order struct {
	ID            int64           `json:"order_id"`
	UserID        int64           `json:"user_id"`
	ProductID     *int64          `json:"product_id,omitempty"`
	SerialNo      string          `json:"serial_no,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`

	// Populated only on admin listings.
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
