package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if filter.Name != "" && !filter.Name.Valid() {
		return nil, domain.Invalid("product_name", "invalid product name", domain.ProductNames()...)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, domain.Invalid("min_price", "min_price must not exceed max_price")
	}
	return s.repo.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create lists a new product owned by seller.
func (s *ProductService) Create(ctx context.Context, seller domain.Identity, in ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		SellerID:  seller.UserID,
		Name:      in.Name,
		Variant:   in.Variant,
		Code:      normalizeCode(in.Code),
		Price:     in.Price,
		Images:    strings.TrimSpace(in.Images),
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, p.Code, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", p.ID).Int64("seller_id", seller.UserID).Msg("product created")
	return p, nil
}

// Update applies patch to product id. The caller must own the listing or be
// an admin.
func (s *ProductService) Update(ctx context.Context, caller domain.Identity, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Empty() {
		return nil, domain.Invalid("", "no valid fields provided for update")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Authorize(caller, domain.RequireOwnerOrAdmin, &current.SellerID) {
		return nil, &domain.ForbiddenError{
			Operation:     domain.OperationSell,
			CurrentRole:   caller.Role,
			RequiredRoles: domain.RequireOwnerOrAdmin.Roles,
		}
	}

	if patch.Code != nil {
		patch.Code = normalizeCode(patch.Code)
	}
	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if patch.Code != nil {
		if err := s.ensureCodeFree(ctx, updated.Code, id); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Int64("by", caller.UserID).Msg("product updated")
	return &updated, nil
}

// Delete removes a product that nothing references and returns it.
func (s *ProductService) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, cartItems, err := s.repo.References(ctx, id)
	if err != nil {
		return nil, err
	}
	if orders > 0 || cartItems > 0 {
		return nil, domain.ErrProductInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return p, nil
}

func (s *ProductService) ensureCodeFree(ctx context.Context, code *string, exceptID int64) error {
	if code == nil {
		return nil
	}
	taken, err := s.repo.CodeTaken(ctx, *code, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrProductCodeTaken
	}
	return nil
}

// normalizeCode treats a blank code as no code.
func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.TrimSpace(*code)
	if c == "" {
		return nil
	}
	return &c
}
