package access

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTable   = errors.New("access table has no portals")
	ErrOrphanedRole = errors.New("role maps to no portal")
)

// Table maps each portal to the roles permitted to use it. Defined at build
// time; immutable at runtime.
type Table map[Portal][]Role

// DefaultTable is the deployed portal/role matrix.
func DefaultTable() Table {
	return Table{
		PortalMainApp: {RoleAdmin, RoleMGA, RoleSeniorBroker},
		PortalBroker:  {RoleBroker},
		PortalHR:      {RoleHRAdmin},
	}
}

// Registry answers portal-access questions from a validated Table.
type Registry struct {
	allowed map[Portal]map[Role]bool
}

// NewRegistry builds a Registry, rejecting tables that leave a known role
// without any portal. An orphaned role would strand its users silently, so
// it is a construction-time failure rather than a runtime one.
func NewRegistry(table Table) (*Registry, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	allowed := make(map[Portal]map[Role]bool, len(table))
	mapped := make(map[Role]bool)
	for portal, roles := range table {
		allowed[portal] = make(map[Role]bool, len(roles))
		for _, role := range roles {
			allowed[portal][role] = true
			mapped[role] = true
		}
	}

	for _, role := range AllRoles {
		if !mapped[role] {
			return nil, fmt.Errorf("%w: %s", ErrOrphanedRole, role)
		}
	}

	return &Registry{allowed: allowed}, nil
}

// MustNewRegistry builds a Registry and panics on an invalid table.
func MustNewRegistry(table Table) *Registry {
	r, err := NewRegistry(table)
	if err != nil {
		panic(fmt.Sprintf("access.MustNewRegistry: %v", err))
	}
	return r
}

// HasAccess reports whether a single role is permitted on a portal. An empty
// role is never permitted.
func (r *Registry) HasAccess(role Role, portal Portal) bool {
	if role == "" {
		return false
	}
	return r.allowed[portal][role]
}

// SetHasAccess reports whether any role in the set is permitted on a portal.
func (r *Registry) SetHasAccess(roles RoleSet, portal Portal) bool {
	for role := range roles {
		if r.allowed[portal][role] {
			return true
		}
	}
	return false
}
