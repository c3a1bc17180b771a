package routing

import (
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/session"
)

// DecisionKind is the outcome class of Authorize.
type DecisionKind int

const (
	Allow DecisionKind = iota
	// Defer means the session is still restoring; the caller waits and asks again.
	Defer
	Redirect
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Defer:
		return "defer"
	default:
		return "redirect"
	}
}

// Decision is the guard's answer for one route.
type Decision struct {
	Kind DecisionKind
	// Target is set for Redirect only.
	Target string
}

// Authorize decides whether a route requiring role may render for snap.
// Roles are disjoint: a staff session may not open guest pages and vice versa.
func Authorize(required domain.Role, snap session.Snapshot) Decision {
	if snap.Restoring {
		return Decision{Kind: Defer}
	}
	if snap.Identity == nil || snap.Identity.Role != required {
		return Decision{Kind: Redirect, Target: LoginTarget(required)}
	}
	return Decision{Kind: Allow}
}
