package routing

import (
	"testing"

	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/session"
)

func guestSnap() session.Snapshot {
	return session.Snapshot{Identity: &domain.Identity{ID: 42, DisplayName: "Ana", Role: domain.RoleGuest, RoomNumber: "12B"}}
}

func staffSnap() session.Snapshot {
	return session.Snapshot{Identity: &domain.Identity{ID: 7, DisplayName: "Sam", Role: domain.RoleStaff, StaffRole: "Manager"}}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		required domain.Role
		snap     session.Snapshot
		want     Decision
	}{
		{"restoring defers guest route", domain.RoleGuest, session.Snapshot{Restoring: true}, Decision{Kind: Defer}},
		{"restoring defers staff route", domain.RoleStaff, session.Snapshot{Restoring: true}, Decision{Kind: Defer}},
		{"anonymous to guest login", domain.RoleGuest, session.Snapshot{}, Decision{Kind: Redirect, Target: "/login"}},
		{"anonymous to staff login", domain.RoleStaff, session.Snapshot{}, Decision{Kind: Redirect, Target: "/stafflogin"}},
		{"guest on staff route", domain.RoleStaff, guestSnap(), Decision{Kind: Redirect, Target: "/stafflogin"}},
		{"staff on guest route", domain.RoleGuest, staffSnap(), Decision{Kind: Redirect, Target: "/login"}},
		{"guest allowed", domain.RoleGuest, guestSnap(), Decision{Kind: Allow}},
		{"staff allowed", domain.RoleStaff, staffSnap(), Decision{Kind: Allow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.required, tt.snap)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			// repeated calls on the same snapshot agree
			if again := Authorize(tt.required, tt.snap); again != got {
				t.Fatalf("inconsistent decision %+v vs %+v", got, again)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("/admin/kitchen/")
	if !ok || r.Role != domain.RoleStaff || r.Title != "Kitchen Display" {
		t.Fatalf("unexpected route %+v %v", r, ok)
	}
	if r, ok := Lookup("/"); !ok || r.Role != "" {
		t.Fatalf("expected public home, got %+v %v", r, ok)
	}
	if _, ok := Lookup("/nowhere"); ok {
		t.Fatal("expected unknown path")
	}
}

func TestLoginTarget(t *testing.T) {
	if LoginTarget(domain.RoleStaff) != StaffLoginPath || LoginTarget(domain.RoleGuest) != GuestLoginPath {
		t.Fatal("unexpected login targets")
	}
}
