// Package layout builds the navigation chrome wrapped around every page.
package layout

import (
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/routing"
	"github.com/oasis-hotel/portal/internal/session"
)

// Kind selects a shell.
type Kind string

const (
	KindPublic Kind = "public"
	KindGuest  Kind = "guest"
	KindStaff  Kind = "staff"
)

// Link is one navigation entry.
type Link struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Active  bool   `json:"active"`
	Primary bool   `json:"primary,omitempty"`
}

// Shell is the chrome around a routed page.
type Shell struct {
	Kind        Kind   `json:"kind"`
	Brand       string `json:"brand"`
	Links       []Link `json:"links"`
	DisplayName string `json:"displayName,omitempty"`
	// LogoutTarget is where the browser lands after logging out; empty on the public shell.
	LogoutTarget string `json:"logoutTarget,omitempty"`
}

type entry struct {
	label, path string
	primary     bool
}

var publicLinks = []entry{
	{label: "Home", path: "/"},
	{label: "Rooms", path: "/rooms"},
	{label: "About", path: "/about"},
	{label: "Guest Login", path: routing.GuestLoginPath},
	{label: "Staff Access", path: routing.StaffLoginPath},
	{label: "Book Now", path: "/contact", primary: true},
}

var guestLinks = []entry{
	{label: "Dashboard", path: "/dashboard"},
	{label: "Laundry", path: "/laundry"},
	{label: "Dining", path: "/dining"},
	{label: "Housekeeping", path: "/housekeeping"},
	{label: "My Bill", path: "/bill"},
}

var staffLinks = []entry{
	{label: "Laundry Manager", path: "/admin/laundry"},
	{label: "Housekeeping", path: "/admin/housekeeping"},
	{label: "Kitchen Display", path: "/admin/kitchen"},
	{label: "Menu Manager", path: "/admin/menu"},
	{label: "AI Concierge", path: "/admin/concierge"},
	{label: "Register Guest", path: "/admin/register"},
	{label: "Checkout", path: "/admin/checkout"},
}

// For builds the shell of kind for a page at currentPath. The session is read
// for the display name only.
func For(kind Kind, currentPath string, snap session.Snapshot) Shell {
	shell := Shell{Kind: kind}
	var entries []entry
	switch kind {
	case KindGuest:
		shell.Brand = "Oasis Guest"
		shell.LogoutTarget = routing.GuestLoginPath
		entries = guestLinks
	case KindStaff:
		shell.Brand = "Oasis Admin"
		shell.LogoutTarget = routing.StaffLoginPath
		entries = staffLinks
		if snap.Identity != nil {
			shell.DisplayName = snap.Identity.DisplayName
		}
	default:
		shell.Kind = KindPublic
		shell.Brand = "Oasis"
		entries = publicLinks
	}

	shell.Links = make([]Link, 0, len(entries))
	for _, e := range entries {
		shell.Links = append(shell.Links, Link{
			Label:   e.label,
			Path:    e.path,
			Active:  e.path == currentPath,
			Primary: e.primary,
		})
	}
	return shell
}

// KindFor maps a route to the shell it renders in.
func KindFor(route routing.Route) Kind {
	switch route.Role {
	case domain.RoleGuest:
		return KindGuest
	case domain.RoleStaff:
		return KindStaff
	}
	return KindPublic
}
