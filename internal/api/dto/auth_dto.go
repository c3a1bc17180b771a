package dto

import (
	"encoding/json"

	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/session"
)

// GuestLoginRequest payload for POST /login.
type GuestLoginRequest struct {
	RoomNumber string `json:"room_number" form:"room_number"`
	Password   string `json:"password" form:"password"`
}

// StaffLoginRequest payload for POST /stafflogin. The id may arrive as a JSON
// number or a numeric string.
type StaffLoginRequest struct {
	StaffID  json.Number `json:"staff_id" form:"staff_id"`
	Password string      `json:"password" form:"password"`
}

// IdentityView is the public form of a session identity.
type IdentityView struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	StaffRole   string `json:"staffRole,omitempty"`
	RoomNumber  string `json:"roomNumber,omitempty"`
}

// SessionView answers GET /session.
type SessionView struct {
	Restoring       bool          `json:"restoring"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	IsStaff         bool          `json:"isStaff"`
	Identity        *IdentityView `json:"identity,omitempty"`
}

// LoginResponse answers a successful login.
type LoginResponse struct {
	Identity IdentityView `json:"identity"`
	Redirect string       `json:"redirect"`
}

// LogoutResponse tells the browser where to go next.
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

// NewIdentityView converts a domain identity.
func NewIdentityView(identity domain.Identity) IdentityView {
	return IdentityView{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		Role:        string(identity.Role),
		StaffRole:   identity.StaffRole,
		RoomNumber:  identity.RoomNumber,
	}
}

// NewSessionView converts a snapshot.
func NewSessionView(snap session.Snapshot) SessionView {
	view := SessionView{
		Restoring:       snap.Restoring,
		IsAuthenticated: snap.IsAuthenticated(),
		IsStaff:         snap.IsStaff(),
	}
	if snap.Identity != nil {
		identity := NewIdentityView(*snap.Identity)
		view.Identity = &identity
	}
	return view
}
