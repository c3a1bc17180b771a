package service

import (
	"context"
	"testing"
	"time"

	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/events"
)

func TestAuditRecordsSessionEvents(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	audit := NewAuditService(d, nil, 0)
	audit.RegisterHandlers()
	ctx := context.Background()

	identity := &domain.Identity{ID: 42, DisplayName: "Ana", Role: domain.RoleGuest, RoomNumber: "12B"}
	expiredAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, e := range []events.Event{
		{ID: "1", Type: events.EventSessionRestored, Payload: events.SessionRestoredPayload{Source: "none"}},
		{ID: "2", Type: events.EventSessionLoggedIn, Payload: events.SessionChangedPayload{Identity: identity}},
		{ID: "3", Type: events.EventCredentialExpired, Payload: events.CredentialRejectedPayload{SubjectID: 42, ExpiredAt: expiredAt}},
	} {
		if err := d.Publish(ctx, e); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	entries := audit.Recent(0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Detail != "none" {
		t.Fatalf("unexpected restore entry %+v", entries[0])
	}
	if entries[1].SubjectID != 42 || entries[1].Detail != "guest" {
		t.Fatalf("unexpected login entry %+v", entries[1])
	}
	if entries[2].Detail != "expired at 2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected expiry entry %+v", entries[2])
	}
	if last := audit.Recent(1); len(last) != 1 || last[0].EventID != "3" {
		t.Fatalf("unexpected recent %+v", last)
	}
}

func TestAuditCapacity(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	audit := NewAuditService(d, nil, 2)
	audit.RegisterHandlers()

	for _, id := range []string{"a", "b", "c"} {
		_ = d.Publish(context.Background(), events.Event{ID: id, Type: events.EventSessionLoggedOut, Payload: events.SessionChangedPayload{}})
	}
	entries := audit.Recent(0)
	if len(entries) != 2 || entries[0].EventID != "b" || entries[1].EventID != "c" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
