package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventSessionLoggedIn, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventSessionLoggedIn, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventSessionLoggedOut, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSessionLoggedIn})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error to surface, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestPublishWithoutListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventCredentialExpired}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
