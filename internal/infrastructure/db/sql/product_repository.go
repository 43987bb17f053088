package sql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	row := newProductRow(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrProductCodeTaken
		}
		return err
	}
	p.ID = row.ID
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) CodeTaken(ctx context.Context, code string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productRow{}).
		Where("product_code = ? AND product_id <> ?", code, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&productRow{})
	if f.Name != "" {
		q = q.Where("product_name = ?", string(f.Name))
	}
	if f.Variant != "" {
		q = q.Where("product_variant = ?", f.Variant)
	}
	if f.MinPrice != nil {
		q = q.Where("product_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("product_price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		q = q.Where("quantity > 0")
	}

	var rows []productRow
	if err := q.Order("created_at DESC, product_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].toDomain()
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&productRow{}).Where("product_id = ?", p.ID).
		Updates(map[string]any{
			"product_name":    string(p.Name),
			"product_variant": p.Variant,
			"product_code":    p.Code,
			"product_price":   p.Price,
			"product_images":  p.Images,
			"quantity":        p.Quantity,
			"updated_at":      p.UpdatedAt,
		})
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return domain.ErrProductCodeTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) References(ctx context.Context, id int64) (orders, cartItems int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&orderRow{}).Where("product_id = ?", id).Count(&orders).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&cartRow{}).Where("product_id = ?", id).Count(&cartItems).Error; err != nil {
		return 0, 0, err
	}
	return orders, cartItems, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&productRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
