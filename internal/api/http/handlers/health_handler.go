package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oasis-hotel/portal/internal/observability"
	"github.com/oasis-hotel/portal/internal/routing"
	"github.com/oasis-hotel/portal/internal/service"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]Pinger
	sessions    routing.SessionSource
	metrics     *observability.Metrics
	audit       *service.AuditService
}

// HealthDependencies bundles what the probes report on.
type HealthDependencies struct {
	Deps     map[string]Pinger
	Sessions routing.SessionSource
	Metrics  *observability.Metrics
	Audit    *service.AuditService
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, deps HealthDependencies) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        deps.Deps,
		sessions:    deps.Sessions,
		metrics:     deps.Metrics,
		audit:       deps.Audit,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies and session restoration.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
		} else {
			depStatus[name] = "ok"
		}
	}

	if h.sessions != nil {
		if h.sessions.Snapshot(ctx).Restoring {
			depStatus["session"] = "restoring"
			ready = false
		} else {
			depStatus["session"] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// Metrics exposes in-process counters and the latest session events.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	resp := fiber.Map{"metrics": h.metrics.Snapshot()}
	if h.audit != nil {
		resp["recent_events"] = h.audit.Recent(20)
	}
	return c.JSON(resp)
}
