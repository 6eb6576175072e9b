package rbac

// Role is one of the closed set of roles recognised by the approval
// workflow. The set is fixed for this business process and is not
// user-configurable.
type Role string

const (
	// RoleAdmin bypasses per-field edit restrictions and may act on any stage.
	RoleAdmin Role = "admin"
	// RoleBusinessDevelopment is the catch-all creator role (BD).
	RoleBusinessDevelopment Role = "business-development"
	RoleCostingAdmin        Role = "costing-admin"
	RoleQAAdmin             Role = "qa-admin"
	RoleAuthorizationAdmin  Role = "authorization-admin"
	RoleDesignAdmin         Role = "design-admin"
	RoleFinalQAAdmin        Role = "final-qa-admin"
	RolePMAdmin             Role = "pm-admin"
	// RoleDataEntry is the capability required to move a record into the
	// ADDED-TO-PROGEN status.
	RoleDataEntry Role = "data-entry"
)

// AllRoles lists every role the workflow recognises.
var AllRoles = []Role{
	RoleAdmin,
	RoleBusinessDevelopment,
	RoleCostingAdmin,
	RoleQAAdmin,
	RoleAuthorizationAdmin,
	RoleDesignAdmin,
	RoleFinalQAAdmin,
	RolePMAdmin,
	RoleDataEntry,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// RoleSet is the set of roles held by an acting user.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles, dropping unknown values.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			set[r] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny reports whether the set contains at least one of the given roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the set contains the admin role.
func (s RoleSet) IsAdmin() bool {
	return s.Has(RoleAdmin)
}

// Roles returns the set's members as a slice, order unspecified.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	return out
}
