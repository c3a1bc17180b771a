package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/backend"
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/routing"
	"github.com/oasis-hotel/portal/internal/session"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// LoginBackend issues credentials.
type LoginBackend interface {
	LoginGuest(ctx context.Context, req backend.GuestLogin) (string, error)
	LoginStaff(ctx context.Context, staffID int64, password string) (backend.StaffLogin, error)
}

// Sessions is the session lifecycle the auth flows drive.
type Sessions interface {
	Login(ctx context.Context, credential string, staff *domain.StaffPayload) (domain.Identity, error)
	Logout(ctx context.Context) error
	Snapshot(ctx context.Context) session.Snapshot
}

// AuthService coordinates the login and logout flows: the backend issues the
// credential, the session adopts it.
type AuthService struct {
	backend  LoginBackend
	sessions Sessions
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(backend LoginBackend, sessions Sessions, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{backend: backend, sessions: sessions, logger: logger}
}

// LoginGuest signs a guest in with room number and password.
func (s *AuthService) LoginGuest(ctx context.Context, roomNumber, password string) (domain.Identity, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" || password == "" {
		return domain.Identity{}, apperrors.NewValidationError("room number and password are required", nil)
	}

	credential, err := s.backend.LoginGuest(ctx, backend.GuestLogin{RoomNumber: roomNumber, Password: password})
	if err != nil {
		s.logger.Info("guest login refused", zap.String("room_number", roomNumber), zap.Error(err))
		return domain.Identity{}, err
	}
	return s.sessions.Login(ctx, credential, nil)
}

// LoginStaff signs a staff member in. staffID is the numeric id typed on the form.
func (s *AuthService) LoginStaff(ctx context.Context, staffID, password string) (domain.Identity, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(staffID), 10, 64)
	if err != nil || id <= 0 {
		return domain.Identity{}, apperrors.NewValidationError("staff id must be a positive number", map[string]any{"staff_id": staffID})
	}
	if password == "" {
		return domain.Identity{}, apperrors.NewValidationError("password is required", nil)
	}

	resp, err := s.backend.LoginStaff(ctx, id, password)
	if err != nil {
		s.logger.Info("staff login refused", zap.Int64("staff_id", id), zap.Error(err))
		return domain.Identity{}, err
	}
	staff := resp.Staff
	return s.sessions.Login(ctx, resp.Token, &staff)
}

// Logout ends the session and returns the login page of the role that was
// signed in. Anonymous callers are sent to the guest login.
func (s *AuthService) Logout(ctx context.Context) (string, error) {
	target := routing.LoginTarget(s.sessions.Snapshot(ctx).Role())
	if err := s.sessions.Logout(ctx); err != nil {
		return target, err
	}
	return target, nil
}
