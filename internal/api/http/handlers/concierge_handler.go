package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/oasis-hotel/portal/internal/api/dto"
	"github.com/oasis-hotel/portal/internal/concierge"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// ConciergeHandler serves the chat widget and the staff policy upload.
type ConciergeHandler struct {
	widget    *concierge.Widget
	client    *concierge.Client
	maxUpload int64
}

// NewConciergeHandler constructs handler.
func NewConciergeHandler(widget *concierge.Widget, client *concierge.Client, maxUpload int64) *ConciergeHandler {
	return &ConciergeHandler{widget: widget, client: client, maxUpload: maxUpload}
}

// Messages handles GET /api/concierge/messages.
func (h *ConciergeHandler) Messages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.view()})
}

// Send handles POST /api/concierge/messages.
func (h *ConciergeHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, ok := h.widget.Send(c.UserContext(), req.Message); !ok {
		return apperrors.NewValidationError("message is required", nil)
	}
	return c.JSON(fiber.Map{"data": h.view()})
}

// Upload handles POST /admin/concierge/upload.
func (h *ConciergeHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile(concierge.UploadField)
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", map[string]any{"field": concierge.UploadField})
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		return apperrors.NewValidationError("file too large", map[string]any{"max_bytes": h.maxUpload})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	result, err := h.client.Ingest(c.UserContext(), header.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UploadResponse{Status: result.Message, File: result.File}})
}

func (h *ConciergeHandler) view() dto.ChatView {
	return dto.ChatView{Messages: h.widget.Messages(), Loading: h.widget.Loading()}
}
