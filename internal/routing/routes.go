package routing

import (
	"strings"

	"github.com/oasis-hotel/portal/internal/domain"
)

// Login targets, one per role.
const (
	GuestLoginPath = "/login"
	StaffLoginPath = "/stafflogin"
)

// Route is one page of the portal.
type Route struct {
	Path  string
	Title string
	// Role is empty for pages anyone may open.
	Role domain.Role
}

// PublicRoutes are reachable without a session.
var PublicRoutes = []Route{
	{Path: "/", Title: "Home"},
	{Path: "/rooms", Title: "Rooms"},
	{Path: "/about", Title: "About"},
	{Path: "/contact", Title: "Contact"},
	{Path: GuestLoginPath, Title: "Guest Login"},
	{Path: StaffLoginPath, Title: "Staff Access"},
}

// GuestRoutes require a guest session.
var GuestRoutes = []Route{
	{Path: "/dashboard", Title: "Dashboard", Role: domain.RoleGuest},
	{Path: "/laundry", Title: "Laundry", Role: domain.RoleGuest},
	{Path: "/dining", Title: "Dining", Role: domain.RoleGuest},
	{Path: "/housekeeping", Title: "Housekeeping", Role: domain.RoleGuest},
	{Path: "/bill", Title: "My Bill", Role: domain.RoleGuest},
}

// StaffRoutes require a staff session.
var StaffRoutes = []Route{
	{Path: "/admin/laundry", Title: "Laundry Manager", Role: domain.RoleStaff},
	{Path: "/admin/housekeeping", Title: "Housekeeping", Role: domain.RoleStaff},
	{Path: "/admin/kitchen", Title: "Kitchen Display", Role: domain.RoleStaff},
	{Path: "/admin/menu", Title: "Menu Manager", Role: domain.RoleStaff},
	{Path: "/admin/concierge", Title: "AI Concierge", Role: domain.RoleStaff},
	{Path: "/admin/register", Title: "Register Guest", Role: domain.RoleStaff},
	{Path: "/admin/checkout", Title: "Checkout", Role: domain.RoleStaff},
}

// LoginTarget returns the login page for role. Unknown roles get the guest login.
func LoginTarget(role domain.Role) string {
	if role == domain.RoleStaff {
		return StaffLoginPath
	}
	return GuestLoginPath
}

// Lookup finds the route registered for path. Trailing slashes are ignored.
func Lookup(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, group := range [][]Route{PublicRoutes, GuestRoutes, StaffRoutes} {
		for _, r := range group {
			if r.Path == path {
				return r, true
			}
		}
	}
	return Route{}, false
}
