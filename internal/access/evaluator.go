package access

// portalPrecedence is the fixed resolution order for multi-role claims. The
// admin tier always wins over broker, which wins over hr_admin. This order is
// a compatibility contract with the deployed portals and must not be
// reordered.
var portalPrecedence = []struct {
	role   Role
	portal Portal
}{
	{RoleAdmin, PortalMainApp},
	{RoleMGA, PortalMainApp},
	{RoleSeniorBroker, PortalMainApp},
	{RoleBroker, PortalBroker},
	{RoleHRAdmin, PortalHR},
}

// elevatedRoles gates the administrative sections of a portal.
var elevatedRoles = RoleSet{
	RoleAdmin:        {},
	RoleMGA:          {},
	RoleSeniorBroker: {},
}

// ResolvePortal returns the portal a caller with the given roles should land
// on: first precedence match wins. Unrecognized or empty role sets default to
// the main app.
func ResolvePortal(roles RoleSet) Portal {
	for _, entry := range portalPrecedence {
		if roles.Contains(entry.role) {
			return entry.portal
		}
	}
	return PortalMainApp
}

// IsElevated reports whether the role set carries the elevated tier required
// for administrative sections.
func IsElevated(roles RoleSet) bool {
	for role := range roles {
		if elevatedRoles.Contains(role) {
			return true
		}
	}
	return false
}
