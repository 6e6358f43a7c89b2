package access

import (
	"sort"
	"strings"
)

// Role is a normalized organization-role identifier. The identity provider is
// the source of truth; this package only reads and normalizes the claim.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleMGA          Role = "mga"
	RoleSeniorBroker Role = "senior_broker"
	RoleBroker       Role = "broker"
	RoleHRAdmin      Role = "hr_admin"
)

// AllRoles lists every role known to the suite.
var AllRoles = []Role{RoleAdmin, RoleMGA, RoleSeniorBroker, RoleBroker, RoleHRAdmin}

// Portal identifies one of the deployed applications.
type Portal string

const (
	PortalMainApp Portal = "main_app"
	PortalBroker  Portal = "broker_portal"
	PortalHR      Portal = "hr_portal"
)

// Normalize canonicalizes a raw role claim value. The provider's claim format
// varies between a human-readable label ("Senior Broker") and an internal
// slug ("senior_broker") depending on which portal issued the session.
// Normalization is idempotent.
func Normalize(raw string) Role {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	return Role(s)
}

// RoleSet is the canonical set-of-roles produced at the identity boundary.
// Downstream code never branches on the raw claim shape.
type RoleSet map[Role]struct{}

// NormalizeClaim converts a raw org-role claim into a RoleSet. The claim may
// arrive as a single string, a []string, or a []any of strings depending on
// how the token was decoded. Anything else yields an empty set, which is
// treated as "no role" rather than an error.
func NormalizeClaim(claim any) RoleSet {
	set := make(RoleSet)
	switch v := claim.(type) {
	case string:
		set.add(v)
	case []string:
		for _, raw := range v {
			set.add(raw)
		}
	case []any:
		for _, item := range v {
			if raw, ok := item.(string); ok {
				set.add(raw)
			}
		}
	}
	return set
}

func (s RoleSet) add(raw string) {
	role := Normalize(raw)
	if role != "" {
		s[role] = struct{}{}
	}
}

func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) Empty() bool {
	return len(s) == 0
}

// Strings returns the sorted role names, for responses and logs.
func (s RoleSet) Strings() []string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return names
}
