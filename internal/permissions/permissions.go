package permissions

// Static role -> permission and navigation -> role tables. Configuration as
// code: no persistence, no inheritance.

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleFSR        = "fsr"
	RoleClient     = "client"
)

// Wildcard grants every permission to a role; NavAll makes a section visible
// to every role.
const (
	Wildcard = "*"
	NavAll   = "all"
)

var rolePermissions = map[string][]string{
	RoleSuperAdmin: {Wildcard},
	RoleAdmin: {
		"clients.view", "clients.edit",
		"reviews.view", "reviews.delete",
		"coupons.view", "coupons.create",
		"orders.view", "orders.update_status",
		"callbacks.view",
		"dashboard.view",
	},
	RoleFSR: {
		"clients.view",
		"onboarding.create",
		"dashboard.view",
	},
	RoleClient: {
		"business.self.view", "business.self.edit",
		"reviews.view", "reviews.delete",
		"coupons.view", "coupons.verify", "coupons.claim",
		"orders.create", "orders.view",
		"callbacks.create",
		"generate.use",
		"dashboard.view",
	},
}

// NavSection is one entry of the console's side navigation.
type NavSection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var navSections = []NavSection{
	{ID: "dashboard", Label: "Dashboard"},
	{ID: "reviews", Label: "Reviews"},
	{ID: "coupons", Label: "Coupons"},
	{ID: "orders", Label: "QR Orders"},
	{ID: "clients", Label: "Clients"},
	{ID: "onboarding", Label: "Onboarding"},
	{ID: "callbacks", Label: "Callbacks"},
	{ID: "settings", Label: "Settings"},
}

var navRoles = map[string][]string{
	"dashboard":  {NavAll},
	"reviews":    {RoleSuperAdmin, RoleAdmin, RoleClient},
	"coupons":    {RoleSuperAdmin, RoleAdmin, RoleClient},
	"orders":     {RoleSuperAdmin, RoleAdmin, RoleClient},
	"clients":    {RoleSuperAdmin, RoleAdmin, RoleFSR},
	"onboarding": {RoleSuperAdmin, RoleFSR},
	"callbacks":  {RoleSuperAdmin, RoleAdmin},
	"settings":   {RoleClient},
}

// HasPermission reports whether role may perform perm. Unknown or empty
// roles never hold any permission.
func HasPermission(role, perm string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == Wildcard || p == perm {
			return true
		}
	}
	return false
}

// CanViewNav reports whether role may see the navigation section navID:
// true exactly when the section's allow-list contains the role or NavAll.
func CanViewNav(role, navID string) bool {
	allowed, ok := navRoles[navID]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == NavAll || r == role {
			return true
		}
	}
	return false
}

// FilterNav returns the navigation sections visible to role, in display order.
func FilterNav(role string) []NavSection {
	out := make([]NavSection, 0, len(navSections))
	for _, s := range navSections {
		if CanViewNav(role, s.ID) {
			out = append(out, s)
		}
	}
	return out
}
