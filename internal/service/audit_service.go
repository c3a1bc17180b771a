package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/events"
)

const defaultAuditCapacity = 100

// AuditEntry is one recorded session event.
type AuditEntry struct {
	EventID   string           `json:"eventId"`
	Type      events.EventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	SubjectID int64            `json:"subjectId,omitempty"`
	Detail    string           `json:"detail,omitempty"`
}

// AuditService logs session lifecycle events and keeps the most recent ones.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	capacity   int

	mu      sync.RWMutex
	entries []AuditEntry
}

// NewAuditService creates the service. capacity <= 0 uses the default.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit"), capacity: capacity}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionRestored, a.handleRestored)
	a.dispatcher.Subscribe(events.EventSessionLoggedIn, a.handleChanged)
	a.dispatcher.Subscribe(events.EventSessionLoggedOut, a.handleChanged)
	a.dispatcher.Subscribe(events.EventCredentialExpired, a.handleRejected)
	a.dispatcher.Subscribe(events.EventCredentialMalformed, a.handleRejected)
}

func (a *AuditService) handleRestored(ctx context.Context, event events.Event) error {
	entry := newEntry(event)
	if p, ok := event.Payload.(events.SessionRestoredPayload); ok {
		entry.Detail = p.Source
		if p.Identity != nil {
			entry.SubjectID = p.Identity.ID
		}
	}
	a.logger.Info("SessionRestored", zap.String("source", entry.Detail), zap.Int64("subject_id", entry.SubjectID))
	a.record(entry)
	return nil
}

func (a *AuditService) handleChanged(ctx context.Context, event events.Event) error {
	entry := newEntry(event)
	if p, ok := event.Payload.(events.SessionChangedPayload); ok && p.Identity != nil {
		entry.SubjectID = p.Identity.ID
		entry.Detail = string(p.Identity.Role)
	}
	a.logger.Info(string(event.Type), zap.Int64("subject_id", entry.SubjectID), zap.String("role", entry.Detail))
	a.record(entry)
	return nil
}

func (a *AuditService) handleRejected(ctx context.Context, event events.Event) error {
	entry := newEntry(event)
	if p, ok := event.Payload.(events.CredentialRejectedPayload); ok {
		entry.SubjectID = p.SubjectID
		entry.Detail = p.Reason
		if entry.Detail == "" && !p.ExpiredAt.IsZero() {
			entry.Detail = "expired at " + p.ExpiredAt.UTC().Format(time.RFC3339)
		}
	}
	a.logger.Warn(string(event.Type), zap.Int64("subject_id", entry.SubjectID), zap.String("detail", entry.Detail))
	a.record(entry)
	return nil
}

// Recent returns up to n entries, newest last. n <= 0 returns all kept entries.
func (a *AuditService) Recent(n int) []AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if n <= 0 || n > len(a.entries) {
		n = len(a.entries)
	}
	return append([]AuditEntry(nil), a.entries[len(a.entries)-n:]...)
}

func (a *AuditService) record(entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	if over := len(a.entries) - a.capacity; over > 0 {
		a.entries = append([]AuditEntry(nil), a.entries[over:]...)
	}
}

func newEntry(event events.Event) AuditEntry {
	return AuditEntry{EventID: event.ID, Type: event.Type, Timestamp: event.Timestamp}
}
