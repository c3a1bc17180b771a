package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/oasis-hotel/portal/internal/api/dto"
	"github.com/oasis-hotel/portal/internal/routing"
	"github.com/oasis-hotel/portal/internal/service"
)

// Landing pages after a successful login.
const (
	GuestHome = "/dashboard"
	StaffHome = "/admin/laundry"
)

// AuthHandler exposes the login, logout and session endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	sessions routing.SessionSource
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions routing.SessionSource) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// GuestLogin handles POST /login.
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	var req dto.GuestLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	identity, err := h.auth.LoginGuest(c.UserContext(), req.RoomNumber, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Identity: dto.NewIdentityView(identity), Redirect: GuestHome}})
}

// StaffLogin handles POST /stafflogin.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	identity, err := h.auth.LoginStaff(c.UserContext(), req.StaffID.String(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Identity: dto.NewIdentityView(identity), Redirect: StaffHome}})
}

// Logout handles POST /logout. It always succeeds for an anonymous caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	target, err := h.auth.Logout(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LogoutResponse{Redirect: target}})
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewSessionView(h.sessions.Snapshot(c.UserContext()))})
}
