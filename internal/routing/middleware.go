package routing

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/observability"
	"github.com/oasis-hotel/portal/internal/session"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

const identityKey = "session_identity"

// SessionSource is the part of session.Manager the guard reads.
type SessionSource interface {
	Snapshot(ctx context.Context) session.Snapshot
	WaitReady(ctx context.Context) error
}

// RequireRole guards a route group. A deferred decision waits for restoration
// within the request context before deciding again.
func RequireRole(sessions SessionSource, role domain.Role, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		snap := sessions.Snapshot(ctx)
		decision := Authorize(role, snap)
		if decision.Kind == Defer {
			if err := sessions.WaitReady(ctx); err != nil {
				metrics.RecordGuardDecision(string(role), Defer.String())
				return apperrors.NewDomainError(apperrors.CodeSessionRestoring, "session is still being restored", http.StatusServiceUnavailable, nil)
			}
			snap = sessions.Snapshot(ctx)
			decision = Authorize(role, snap)
		}
		metrics.RecordGuardDecision(string(role), decision.Kind.String())

		switch decision.Kind {
		case Allow:
			c.Locals(identityKey, *snap.Identity)
			return c.Next()
		case Redirect:
			return c.Redirect(decision.Target, fiber.StatusFound)
		}
		return apperrors.NewInternalError(nil)
	}
}

// IdentityFromContext returns the identity admitted by RequireRole.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
