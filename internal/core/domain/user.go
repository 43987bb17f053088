package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the marketplace role carried by an account and its tokens.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User is the durable account record owned by the user directory.
type User struct {
	ID              int64           `json:"user_id"`
	Name            string          `json:"user_name"`
	Email           string          `json:"user_email"`
	PasswordHash    string          `json:"-"`
	Role            Role            `json:"role"`
	Phone           string          `json:"user_phone,omitempty"`
	StudyYear       string          `json:"user_studyyear,omitempty"`
	Branch          string          `json:"user_branch,omitempty"`
	Section         string          `json:"user_section,omitempty"`
	Residency       string          `json:"user_residency,omitempty"`
	PaymentReceived bool            `json:"payment_received"`
	AmountGiven     decimal.Decimal `json:"amount_given"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Identity returns the token-level view of the account.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// Profile holds the self-service fields a user (or an admin) may change.
type Profile struct {
	Phone     string
	StudyYear string
	Branch    string
	Section   string
	Residency string
}
