package service

import (
	"context"
	"errors"
	"testing"

	"github.com/oasis-hotel/portal/internal/backend"
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/session"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

type fakeBackend struct {
	guestCredential string
	staff           backend.StaffLogin
	err             error

	gotGuest   backend.GuestLogin
	gotStaffID int64
}

func (f *fakeBackend) LoginGuest(_ context.Context, req backend.GuestLogin) (string, error) {
	f.gotGuest = req
	return f.guestCredential, f.err
}

func (f *fakeBackend) LoginStaff(_ context.Context, id int64, _ string) (backend.StaffLogin, error) {
	f.gotStaffID = id
	return f.staff, f.err
}

type fakeSessions struct {
	identity   *domain.Identity
	credential string
	staff      *domain.StaffPayload
	logouts    int
}

func (f *fakeSessions) Login(_ context.Context, credential string, staff *domain.StaffPayload) (domain.Identity, error) {
	f.credential, f.staff = credential, staff
	identity := domain.Identity{ID: 42, DisplayName: "Ana", Role: domain.RoleGuest, RoomNumber: "12B"}
	if staff != nil {
		identity = domain.NewStaffIdentity(*staff)
	}
	f.identity = &identity
	return identity, nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logouts++
	f.identity = nil
	return nil
}

func (f *fakeSessions) Snapshot(context.Context) session.Snapshot {
	return session.Snapshot{Identity: f.identity}
}

func TestLoginGuest(t *testing.T) {
	be := &fakeBackend{guestCredential: "cred"}
	sess := &fakeSessions{}
	svc := NewAuthService(be, sess, nil)

	identity, err := svc.LoginGuest(context.Background(), " 12B ", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if be.gotGuest.RoomNumber != "12B" || sess.credential != "cred" || sess.staff != nil {
		t.Fatalf("unexpected calls %+v %+v", be.gotGuest, sess)
	}
	if identity.Role != domain.RoleGuest {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestLoginGuestValidation(t *testing.T) {
	svc := NewAuthService(&fakeBackend{}, &fakeSessions{}, nil)
	if _, err := svc.LoginGuest(context.Background(), "", "pw"); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginBackendFailureLeavesSession(t *testing.T) {
	be := &fakeBackend{err: apperrors.NewBackendUnreachable("backend", errors.New("refused"))}
	sess := &fakeSessions{}
	svc := NewAuthService(be, sess, nil)

	_, err := svc.LoginGuest(context.Background(), "12B", "pw")
	if !apperrors.HasCode(err, apperrors.CodeBackendUnreachable) {
		t.Fatalf("expected unreachable, got %v", err)
	}
	if sess.identity != nil || sess.credential != "" {
		t.Fatal("session must not change on backend failure")
	}
}

func TestLoginStaffUsesPayload(t *testing.T) {
	be := &fakeBackend{staff: backend.StaffLogin{Token: "tok", Staff: domain.StaffPayload{ID: 7, Name: "Sam", Role: "Manager"}}}
	sess := &fakeSessions{}
	svc := NewAuthService(be, sess, nil)

	identity, err := svc.LoginStaff(context.Background(), "7", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if be.gotStaffID != 7 || sess.credential != "tok" {
		t.Fatalf("unexpected calls %d %q", be.gotStaffID, sess.credential)
	}
	want := domain.Identity{ID: 7, DisplayName: "Sam", Role: domain.RoleStaff, StaffRole: "Manager"}
	if identity != want {
		t.Fatalf("expected %+v got %+v", want, identity)
	}
}

func TestLoginStaffRejectsBadID(t *testing.T) {
	svc := NewAuthService(&fakeBackend{}, &fakeSessions{}, nil)
	for _, id := range []string{"", "abc", "-3"} {
		if _, err := svc.LoginStaff(context.Background(), id, "pw"); !apperrors.HasCode(err, apperrors.CodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", id, err)
		}
	}
}

func TestLogoutTargets(t *testing.T) {
	sess := &fakeSessions{identity: &domain.Identity{ID: 7, DisplayName: "Sam", Role: domain.RoleStaff, StaffRole: "Manager"}}
	svc := NewAuthService(&fakeBackend{}, sess, nil)

	target, err := svc.Logout(context.Background())
	if err != nil || target != "/stafflogin" {
		t.Fatalf("expected /stafflogin, got %q %v", target, err)
	}
	// second logout: anonymous, still fine
	target, err = svc.Logout(context.Background())
	if err != nil || target != "/login" {
		t.Fatalf("expected /login, got %q %v", target, err)
	}
	if sess.logouts != 2 {
		t.Fatalf("expected 2 logouts, got %d", sess.logouts)
	}
}
