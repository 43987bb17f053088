package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// Add puts quantity units of a product into buyer's cart.
func (s *CartService) Add(ctx context.Context, buyer domain.Identity, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity", "quantity must be a positive number")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	item := &domain.CartItem{UserID: buyer.UserID, ProductID: productID, Quantity: quantity}
	if err := s.carts.Add(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("cart_id", item.ID).Int64("user_id", buyer.UserID).Msg("cart item added")
	return item, nil
}

func (s *CartService) List(ctx context.Context, buyer domain.Identity) ([]domain.CartLine, error) {
	return s.carts.ListByUser(ctx, buyer.UserID)
}

// UpdateQuantity matches any item for admins and only the caller's own
// items otherwise; anything else is reported as not found.
func (s *CartService) UpdateQuantity(ctx context.Context, caller domain.Identity, cartID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "quantity must be a positive number")
	}
	owner := domain.OwnerScope(caller, domain.RequireOwnerOrAdmin)
	return s.carts.UpdateQuantity(ctx, cartID, owner, quantity)
}

func (s *CartService) Remove(ctx context.Context, caller domain.Identity, cartID int64) error {
	owner := domain.OwnerScope(caller, domain.RequireOwnerOrAdmin)
	if err := s.carts.Remove(ctx, cartID, owner); err != nil {
		return err
	}
	s.logger.Debug().Int64("cart_id", cartID).Int64("user_id", caller.UserID).Msg("cart item removed")
	return nil
}
