package ports

import (
	"context"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// CartRepository defines persistence operations for cart items. Mutations
// are a single conditional statement, scoped to ownerID when it is non-nil;
// they return domain.ErrCartItemNotFound when no row matched.
type CartRepository interface {
	Add(ctx context.Context, item *domain.CartItem) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, cartID int64, ownerID *int64, quantity int) error
	Remove(ctx context.Context, cartID int64, ownerID *int64) error
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus changes an order's status. When ownerID is non-nil the
	// update only matches orders owned by that user. Returns
	// domain.ErrOrderNotFound when no row matched.
	UpdateStatus(ctx context.Context, orderID int64, ownerID *int64, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
}
