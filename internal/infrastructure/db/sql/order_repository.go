package sql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

var _ ports.CartRepository = (*CartRepository)(nil)

func (r *CartRepository) Add(ctx context.Context, item *domain.CartItem) error {
	row := &cartRow{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	item.ID = row.ID
	return nil
}

type cartLineRow struct {
	CartID       int64
	ProductID    int64
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
}

func (r *CartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	var rows []cartLineRow
	err := r.db.WithContext(ctx).Table("cart AS c").
		Select("c.cart_id, c.product_id, p.product_name, p.product_price, c.quantity").
		Joins("JOIN products p ON p.product_id = c.product_id").
		Where("c.user_id = ?", userID).
		Order("c.cart_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, len(rows))
	for i, row := range rows {
		lines[i] = domain.CartLine{
			CartID:      row.CartID,
			ProductID:   row.ProductID,
			ProductName: domain.ProductName(row.ProductName),
			Price:       row.ProductPrice,
			Quantity:    row.Quantity,
			Total:       row.ProductPrice.Mul(decimal.NewFromInt(int64(row.Quantity))),
		}
	}
	return lines, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, cartID int64, ownerID *int64, quantity int) error {
	db := r.db.WithContext(ctx)
	scope := func() *gorm.DB {
		return cartScope(db.Model(&cartRow{}), cartID, ownerID)
	}

	res := scope().Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return ownedOrMissing(scope(), domain.ErrCartItemNotFound)
}

func (r *CartRepository) Remove(ctx context.Context, cartID int64, ownerID *int64) error {
	res := cartScope(r.db.WithContext(ctx), cartID, ownerID).Delete(&cartRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func cartScope(q *gorm.DB, cartID int64, ownerID *int64) *gorm.DB {
	q = q.Where("cart_id = ?", cartID)
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	return q
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	row := newOrderRow(o)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	o.ID = row.ID
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, order_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].toDomain()
	}
	return orders, nil
}

type adminOrderRow struct {
	OrderID       int64
	UserID        int64
	ProductID     *int64
	SerialNo      string
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
	UserName      string
	UserEmail     string
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var rows []adminOrderRow
	err := r.db.WithContext(ctx).Table("orders AS o").
		Select("o.order_id, o.user_id, o.product_id, o.serial_no, o.total_amount, o.payment_method, o.status, o.created_at, COALESCE(u.user_name, '') AS user_name, COALESCE(u.user_email, '') AS user_email").
		Joins("LEFT JOIN users u ON u.user_id = o.user_id").
		Order("o.created_at DESC, o.order_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = &domain.Order{
			ID:            row.OrderID,
			UserID:        row.UserID,
			ProductID:     row.ProductID,
			SerialNo:      row.SerialNo,
			TotalAmount:   row.TotalAmount,
			PaymentMethod: row.PaymentMethod,
			Status:        domain.OrderStatus(row.Status),
			CreatedAt:     row.CreatedAt,
			UserName:      row.UserName,
			UserEmail:     row.UserEmail,
		}
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, ownerID *int64, status domain.OrderStatus) error {
	db := r.db.WithContext(ctx)
	scope := func() *gorm.DB {
		q := db.Model(&orderRow{}).Where("order_id = ?", orderID)
		if ownerID != nil {
			q = q.Where("user_id = ?", *ownerID)
		}
		return q
	}

	res := scope().Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return ownedOrMissing(scope(), domain.ErrOrderNotFound)
}

func (r *OrderRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&orderRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ownedOrMissing tells a no-op update (same value written back, which MySQL
// reports as zero rows affected) apart from a row that is absent or owned by
// someone else.
func ownedOrMissing(scope *gorm.DB, notFound error) error {
	var n int64
	if err := scope.Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
