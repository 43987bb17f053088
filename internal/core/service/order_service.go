package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

// Create places an order for buyer. Status defaults to pending.
func (s *OrderService) Create(ctx context.Context, buyer domain.Identity, in ports.CreateOrderInput) (*domain.Order, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, domain.Invalid("total_amount", "total amount must be a positive number")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return nil, domain.Invalid("payment_method", "payment method is required")
	}
	status := in.Status
	if status == "" {
		status = domain.OrderPending
	}
	if !status.Valid() {
		return nil, invalidStatus()
	}
	if in.ProductID != nil {
		if _, err := s.products.FindByID(ctx, *in.ProductID); err != nil {
			return nil, err
		}
	}

	o := &domain.Order{
		UserID:        buyer.UserID,
		ProductID:     in.ProductID,
		SerialNo:      strings.TrimSpace(in.SerialNo),
		TotalAmount:   in.TotalAmount,
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("order_id", o.ID).Int64("user_id", buyer.UserID).Msg("order placed")
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, buyer domain.Identity) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, buyer.UserID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus lets admins update any order and everyone else only their own.
func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Identity, orderID int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return invalidStatus()
	}

	owner := domain.OwnerScope(caller, domain.RequireOwnerOrAdmin)
	if err := s.orders.UpdateStatus(ctx, orderID, owner, status); err != nil {
		return err
	}

	s.logger.Info().Int64("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return nil
}

func (s *OrderService) Delete(ctx context.Context, orderID int64) error {
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}
	s.logger.Info().Int64("order_id", orderID).Msg("order deleted")
	return nil
}

func invalidStatus() error {
	return domain.Invalid("status", "invalid order status",
		string(domain.OrderPending), string(domain.OrderConfirmed), string(domain.OrderShipped),
		string(domain.OrderDelivered), string(domain.OrderCancelled))
}
