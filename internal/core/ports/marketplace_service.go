package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// UserService covers account administration.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Identity, targetID int64, profile domain.Profile) error
	Delete(ctx context.Context, id int64) error
}

// CreateProductInput carries a new listing.
type CreateProductInput struct {
	Name     domain.ProductName
	Variant  string
	Code     *string
	Price    decimal.Decimal
	Images   string
	Quantity int
}

// ProductService covers the product catalogue.
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, seller domain.Identity, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, caller domain.Identity, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
}

// CartService covers a buyer's cart.
type CartService interface {
	Add(ctx context.Context, buyer domain.Identity, productID int64, quantity int) (*domain.CartItem, error)
	List(ctx context.Context, buyer domain.Identity) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, caller domain.Identity, cartID int64, quantity int) error
	Remove(ctx context.Context, caller domain.Identity, cartID int64) error
}

// CreateOrderInput carries a new order.
type CreateOrderInput struct {
	ProductID     *int64
	SerialNo      string
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        domain.OrderStatus
}

// OrderService covers order placement and administration.
type OrderService interface {
	Create(ctx context.Context, buyer domain.Identity, in CreateOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, buyer domain.Identity) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, orderID int64, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
}
