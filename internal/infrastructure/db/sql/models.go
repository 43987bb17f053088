package sql

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

type userRow struct {
	ID              int64           `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name            string          `gorm:"column:user_name;size:100;not null"`
	Email           string          `gorm:"column:user_email;size:255;uniqueIndex;not null"`
	PasswordHash    string          `gorm:"column:user_password;size:255;not null"`
	Role            string          `gorm:"column:role;size:16;not null;default:buyer;index"`
	Phone           string          `gorm:"column:user_phone;size:32"`
	StudyYear       string          `gorm:"column:user_studyyear;size:16"`
	Branch          string          `gorm:"column:user_branch;size:64"`
	Section         string          `gorm:"column:user_section;size:16"`
	Residency       string          `gorm:"column:user_residency;size:64"`
	PaymentReceived bool            `gorm:"column:payment_received;not null;default:false"`
	AmountGiven     decimal.Decimal `gorm:"column:amount_given;type:decimal(10,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

func newUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		Phone:           u.Phone,
		StudyYear:       u.StudyYear,
		Branch:          u.Branch,
		Section:         u.Section,
		Residency:       u.Residency,
		PaymentReceived: u.PaymentReceived,
		AmountGiven:     u.AmountGiven,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		PasswordHash:    r.PasswordHash,
		Role:            domain.Role(r.Role),
		Phone:           r.Phone,
		StudyYear:       r.StudyYear,
		Branch:          r.Branch,
		Section:         r.Section,
		Residency:       r.Residency,
		PaymentReceived: r.PaymentReceived,
		AmountGiven:     r.AmountGiven,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type productRow struct {
	ID        int64           `gorm:"column:product_id;primaryKey;autoIncrement"`
	SellerID  int64           `gorm:"column:seller_id;not null;index"`
	Name      string          `gorm:"column:product_name;size:32;not null;index"`
	Variant   string          `gorm:"column:product_variant;size:32;not null"`
	Code      *string         `gorm:"column:product_code;size:64;uniqueIndex"`
	Price     decimal.Decimal `gorm:"column:product_price;type:decimal(10,2);not null"`
	Images    string          `gorm:"column:product_images;type:text"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRow) TableName() string { return "products" }

func newProductRow(p *domain.Product) *productRow {
	return &productRow{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Name:      string(p.Name),
		Variant:   p.Variant,
		Code:      p.Code,
		Price:     p.Price,
		Images:    p.Images,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:        r.ID,
		SellerID:  r.SellerID,
		Name:      domain.ProductName(r.Name),
		Variant:   r.Variant,
		Code:      r.Code,
		Price:     r.Price,
		Images:    r.Images,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type cartRow struct {
	ID        int64     `gorm:"column:cart_id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (cartRow) TableName() string { return "cart" }

type orderRow struct {
	ID            int64           `gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID        int64           `gorm:"column:user_id;not null;index"`
	ProductID     *int64          `gorm:"column:product_id;index"`
	SerialNo      string          `gorm:"column:serial_no;size:64"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"column:payment_method;size:32;not null"`
	Status        string          `gorm:"column:status;size:16;not null;default:pending"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (orderRow) TableName() string { return "orders" }

func newOrderRow(o *domain.Order) *orderRow {
	return &orderRow{
		ID:            o.ID,
		UserID:        o.UserID,
		ProductID:     o.ProductID,
		SerialNo:      o.SerialNo,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

func (r *orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		ProductID:     r.ProductID,
		SerialNo:      r.SerialNo,
		TotalAmount:   r.TotalAmount,
		PaymentMethod: r.PaymentMethod,
		Status:        domain.OrderStatus(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}
