package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ownerPtr(id int64) *int64 { return &id }

func TestAuthorize_RoleRequirement(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleSeller, true},
		{RoleAdmin, true},
		{RoleBuyer, false},
		{Role("guest"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			id := Identity{UserID: 1, Email: "a@campus.edu", Role: tc.role}
			assert.Equal(t, tc.want, Authorize(id, RequireSeller, nil))
		})
	}
}

func TestAuthorize_OwnerOrAdmin(t *testing.T) {
	owner := ownerPtr(7)

	assert.True(t, Authorize(Identity{UserID: 7, Role: RoleBuyer}, RequireOwnerOrAdmin, owner))
	assert.False(t, Authorize(Identity{UserID: 8, Role: RoleBuyer}, RequireOwnerOrAdmin, owner))
	assert.True(t, Authorize(Identity{UserID: 8, Role: RoleAdmin}, RequireOwnerOrAdmin, owner))
}

func TestAuthorize_OwnershipOnly(t *testing.T) {
	req := Requirement{Owner: true}

	assert.True(t, Authorize(Identity{UserID: 3, Role: RoleBuyer}, req, ownerPtr(3)))
	assert.False(t, Authorize(Identity{UserID: 3, Role: RoleAdmin}, req, ownerPtr(4)))
	assert.False(t, Authorize(Identity{UserID: 3, Role: RoleBuyer}, req, nil), "unowned resource never matches ownership")
}

func TestAuthorize_ZeroRequirementAdmitsAnyIdentity(t *testing.T) {
	for _, r := range []Role{RoleBuyer, RoleSeller, RoleAdmin} {
		assert.True(t, Authorize(Identity{UserID: 1, Role: r}, RequireAuthenticated, nil))
	}
}

func TestRequirementFor(t *testing.T) {
	assert.Equal(t, RequireAuthenticated, RequirementFor(OperationBuy))
	assert.Equal(t, RequireSeller, RequirementFor(OperationSell))
}

func TestForbiddenError_MatchesSentinel(t *testing.T) {
	err := error(&ForbiddenError{Operation: OperationSell, CurrentRole: RoleBuyer, RequiredRoles: RequireSeller.Roles})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "seller, admin")
}

func TestProduct_Validate(t *testing.T) {
	p := Product{Name: ProductCalculator, Variant: "ES-Plus", Price: decimal.RequireFromString("120.50"), Quantity: 1}
	assert.NoError(t, p.Validate())

	bad := p
	bad.Variant = "XL"
	var ve *ValidationError
	err := bad.Validate()
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "product_variant", ve.Field)
	assert.Equal(t, []string{"MS", "ES", "ES-Plus"}, ve.Options)

	bad = p
	bad.Name = "stapler"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = p
	bad.Quantity = -1
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}

func TestOwnerScope(t *testing.T) {
	assert.Nil(t, OwnerScope(Identity{UserID: 8, Role: RoleAdmin}, RequireOwnerOrAdmin))

	scope := OwnerScope(Identity{UserID: 7, Role: RoleBuyer}, RequireOwnerOrAdmin)
	if assert.NotNil(t, scope) {
		assert.Equal(t, int64(7), *scope)
	}
	assert.NotNil(t, OwnerScope(Identity{UserID: 2, Role: RoleSeller}, RequireOwnerOrAdmin))
}
