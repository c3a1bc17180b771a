package domain

import "errors"

// StaffPayload is the staff record returned next to the token by the staff login endpoint.
type StaffPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Role is the job title, e.g. "Manager" or "Housekeeping".
	Role string `json:"role"`
}

// Validate requires every field of the payload.
func (p StaffPayload) Validate() error {
	if p.ID == 0 || p.Name == "" || p.Role == "" {
		return errors.New("staff payload requires id, name and role")
	}
	return nil
}
