package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentity marks an identity record that breaks the role invariants.
var ErrInvalidIdentity = errors.New("invalid identity")

// Identity is the reconciled, role-tagged record of the signed-in subject.
// Its JSON form is the persisted identity record.
type Identity struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
	StaffRole   string `json:"staffRole,omitempty"`
	RoomNumber  string `json:"room_number,omitempty"`
}

// NewGuestIdentity builds a guest identity from decoded credential claims.
func NewGuestIdentity(claims GuestClaims) Identity {
	name := claims.Name
	if name == "" {
		name = DefaultGuestName
	}
	return Identity{
		ID:          claims.SubjectID,
		DisplayName: name,
		Role:        RoleGuest,
		RoomNumber:  claims.RoomNumber,
	}
}

// NewStaffIdentity builds a staff identity from the login payload.
func NewStaffIdentity(p StaffPayload) Identity {
	return Identity{
		ID:          p.ID,
		DisplayName: p.Name,
		Role:        RoleStaff,
		StaffRole:   p.Role,
	}
}

// Validate enforces that staff and guest attributes never mix.
func (i Identity) Validate() error {
	switch i.Role {
	case RoleGuest:
		if i.StaffRole != "" {
			return fmt.Errorf("%w: guest identity carries staff role", ErrInvalidIdentity)
		}
	case RoleStaff:
		if i.RoomNumber != "" {
			return fmt.Errorf("%w: staff identity carries room number", ErrInvalidIdentity)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidIdentity, i.Role)
	}
	return nil
}

// IsStaff reports whether the identity belongs to a staff member.
func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff
}
