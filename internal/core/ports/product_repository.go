package ports

import (
	"context"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// CodeTaken reports whether code belongs to a product other than exceptID.
	CodeTaken(ctx context.Context, code string, exceptID int64) (bool, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	// References counts the orders and cart items pointing at a product.
	References(ctx context.Context, id int64) (orders, cartItems int64, err error)
	Delete(ctx context.Context, id int64) error
}
