package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/api/dto"
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/layout"
	"github.com/oasis-hotel/portal/internal/routing"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// PageData loads page data from the backend.
type PageData interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// DataPaths maps a page to the backend resource it shows. "{id}" is replaced
// with the signed-in subject id.
var DataPaths = map[string]string{
	"/rooms":              "/rooms",
	"/dashboard":          "/guests/{id}",
	"/laundry":            "/laundry/menu",
	"/dining":             "/restaurant/menu",
	"/bill":               "/invoice/preview",
	"/admin/laundry":      "/laundry/requests/all",
	"/admin/housekeeping": "/housekeeping/live",
	"/admin/kitchen":      "/restaurant/orders/active",
	"/admin/menu":         "/restaurant/menu",
}

// PagesHandler renders page view models inside their layout shell.
type PagesHandler struct {
	sessions routing.SessionSource
	data     PageData
	logger   *zap.Logger
}

// NewPagesHandler constructs handler.
func NewPagesHandler(sessions routing.SessionSource, data PageData, logger *zap.Logger) *PagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{sessions: sessions, data: data, logger: logger}
}

// Page returns the handler for route.
func (h *PagesHandler) Page(route routing.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		snap := h.sessions.Snapshot(ctx)

		body := dto.PageBody{Path: route.Path, Title: route.Title}
		if path, ok := DataPaths[route.Path]; ok && h.data != nil {
			if identity, ok := routing.IdentityFromContext(c); ok {
				path = expandPath(path, identity)
			}
			var data any
			if err := h.data.GetJSON(ctx, path, &data); err != nil {
				// a failed fetch is shown on the page and leaves the session alone
				domainErr := apperrors.ToDomainError(err)
				h.logger.Warn("page data unavailable", zap.String("page", route.Path), zap.String("code", domainErr.Code))
				body.Error = &dto.PageError{Code: domainErr.Code, Message: domainErr.Message}
			} else {
				body.Data = data
			}
		}

		return c.JSON(dto.PageView{
			Layout: layout.For(layout.KindFor(route), route.Path, snap),
			Page:   body,
		})
	}
}

func expandPath(path string, identity domain.Identity) string {
	return strings.ReplaceAll(path, "{id}", strconv.FormatInt(identity.ID, 10))
}
