package handler

import (
	"github.com/shopspring/decimal"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// ── Common ────────────────────────────────────────────────────────────────────

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type signupRequest struct {
	Name      string `json:"user_name"      validate:"required,max=100"`
	Email     string `json:"user_email"     validate:"required,email,max=255"`
	Password  string `json:"user_password"  validate:"required"`
	Role      string `json:"role"`
	Phone     string `json:"user_phone"     validate:"max=32"`
	StudyYear string `json:"user_studyyear" validate:"max=16"`
	Branch    string `json:"user_branch"    validate:"max=64"`
	Section   string `json:"user_section"   validate:"max=16"`
	Residency string `json:"user_residency" validate:"max=64"`
}

type loginRequest struct {
	Email    string `json:"user_email"    validate:"required"`
	Password string `json:"user_password" validate:"required"`
}

// sessionUser is the account summary returned with a fresh token.
type sessionUser struct {
	UserID int64       `json:"userId"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

func newSessionUser(u *domain.User) sessionUser {
	return sessionUser{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    sessionUser `json:"user"`
}

type profileResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type validateTransactionRequest struct {
	Operation string `json:"operation"`
}

type transactionUser struct {
	UserID int64       `json:"user_id"`
	Name   string      `json:"user_name"`
	Email  string      `json:"user_email"`
	Role   domain.Role `json:"role"`
}

type transactionResponse struct {
	Success   bool             `json:"success"`
	Valid     bool             `json:"valid"`
	Operation domain.Operation `json:"operation"`
	User      transactionUser  `json:"user"`
}

// ── Users ─────────────────────────────────────────────────────────────────────

type updateProfileRequest struct {
	Phone     string `json:"user_phone"     validate:"max=32"`
	StudyYear string `json:"user_studyyear" validate:"max=16"`
	Branch    string `json:"user_branch"    validate:"max=64"`
	Section   string `json:"user_section"   validate:"max=16"`
	Residency string `json:"user_residency" validate:"max=64"`
}

type userListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Users   []*domain.User `json:"users"`
}

// ── Products ──────────────────────────────────────────────────────────────────

type createProductRequest struct {
	Name     string          `json:"product_name"    validate:"required"`
	Variant  string          `json:"product_variant" validate:"required"`
	Code     *string         `json:"product_code"    validate:"omitempty,max=64"`
	Price    decimal.Decimal `json:"product_price"   swaggertype:"number"`
	Images   string          `json:"product_images"`
	Quantity *int            `json:"quantity"        validate:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name     *string          `json:"product_name"`
	Variant  *string          `json:"product_variant"`
	Code     *string          `json:"product_code"    validate:"omitempty,max=64"`
	Price    *decimal.Decimal `json:"product_price"   swaggertype:"number"`
	Images   *string          `json:"product_images"`
	Quantity *int             `json:"quantity"        validate:"omitempty,gte=0"`
}

func (r updateProductRequest) patch() domain.ProductPatch {
	p := domain.ProductPatch{
		Variant:  r.Variant,
		Code:     r.Code,
		Price:    r.Price,
		Images:   r.Images,
		Quantity: r.Quantity,
	}
	if r.Name != nil {
		name := domain.ProductName(*r.Name)
		p.Name = &name
	}
	return p
}

type productResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Product *domain.Product `json:"product"`
}

type productListResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Products []*domain.Product `json:"products"`
}

// ── Cart ──────────────────────────────────────────────────────────────────────

type addToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type cartItemResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Item    *domain.CartItem `json:"item"`
}

type cartListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Items   []domain.CartLine `json:"items"`
	Total   decimal.Decimal   `json:"total" swaggertype:"number"`
}

// ── Orders ────────────────────────────────────────────────────────────────────

type createOrderRequest struct {
	ProductID     *int64          `json:"product_id"     validate:"omitempty,gt=0"`
	SerialNo      string          `json:"serial_no"      validate:"max=64"`
	TotalAmount   decimal.Decimal `json:"total_amount"   swaggertype:"number"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=32"`
	Status        string          `json:"status"`
}

type updateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type orderListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Orders  []*domain.Order `json:"orders"`
}
