package events

import (
	"time"

	"github.com/oasis-hotel/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionRestored     EventType = "session_restored"
	EventSessionLoggedIn     EventType = "session_logged_in"
	EventSessionLoggedOut    EventType = "session_logged_out"
	EventCredentialExpired   EventType = "credential_expired"
	EventCredentialMalformed EventType = "credential_malformed"
)

// Event represents a session lifecycle change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionRestoredPayload describes the outcome of startup restoration.
type SessionRestoredPayload struct {
	// Source is "identity", "credential" or "none".
	Source   string           `json:"source"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// SessionChangedPayload accompanies login and logout.
type SessionChangedPayload struct {
	Identity *domain.Identity `json:"identity,omitempty"`
}

// CredentialRejectedPayload accompanies expired or malformed credentials.
type CredentialRejectedPayload struct {
	SubjectID int64     `json:"subject_id,omitempty"`
	ExpiredAt time.Time `json:"expired_at,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
