package domain

import "time"

// Role is the disjoint category an identity belongs to.
type Role string

const (
	RoleGuest Role = "guest"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleStaff
}

// DefaultGuestName is used when a guest credential carries no display name.
const DefaultGuestName = "Guest"

// GuestClaims are the fields decoded from a bearer credential.
type GuestClaims struct {
	SubjectID  int64
	Name       string
	RoomNumber string
	// ExpiresAt is zero when the credential carries no expiry.
	ExpiresAt time.Time
}

// Expired reports whether the credential is past its expiry at now.
func (c GuestClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
