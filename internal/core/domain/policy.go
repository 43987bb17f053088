package domain

// Requirement is the capability an operation demands of its caller. Roles
// and Owner combine with OR semantics: a caller passes when it owns the
// resource or holds one of the roles. The zero value admits any
// authenticated identity.
type Requirement struct {
	Roles []Role
	Owner bool
}

var (
	RequireAuthenticated = Requirement{}
	RequireSeller        = Requirement{Roles: []Role{RoleSeller, RoleAdmin}}
	RequireAdmin         = Requirement{Roles: []Role{RoleAdmin}}
	RequireOwnerOrAdmin  = Requirement{Roles: []Role{RoleAdmin}, Owner: true}
)

// RequirementFor returns the capability a guarded operation needs.
// Buying only needs an existing account.
func RequirementFor(op Operation) Requirement {
	if op == OperationSell {
		return RequireSeller
	}
	return RequireAuthenticated
}

// Authorize decides whether id satisfies req. ownerID is the owning user of
// the target resource and may be nil when the resource has no owner.
// Authorize is a pure function.
func Authorize(id Identity, req Requirement, ownerID *int64) bool {
	if !req.Owner && len(req.Roles) == 0 {
		return true
	}
	if req.Owner && ownerID != nil && *ownerID == id.UserID {
		return true
	}
	return id.Role.In(req.Roles...)
}

// OwnerScope turns req into a row filter for a conditional update. It is nil
// when id's role satisfies req on its own, otherwise the caller's user id.
func OwnerScope(id Identity, req Requirement) *int64 {
	if Authorize(id, req, nil) {
		return nil
	}
	owner := id.UserID
	return &owner
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
