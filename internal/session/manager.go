package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/auth"
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/events"
	"github.com/oasis-hotel/portal/internal/storage"
	"github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// Restoration sources reported in SessionRestoredPayload.
const (
	SourceIdentity   = "identity"
	SourceCredential = "credential"
	SourceNone       = "none"
)

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Restoring bool
	Identity  *domain.Identity
}

// IsAuthenticated reports whether an identity is held.
func (s Snapshot) IsAuthenticated() bool {
	return s.Identity != nil
}

// IsStaff reports whether the held identity is a staff member.
func (s Snapshot) IsStaff() bool {
	return s.Identity != nil && s.Identity.IsStaff()
}

// Role returns the held identity's role, or "" when anonymous.
func (s Snapshot) Role() domain.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Options customizes a Manager.
type Options struct {
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Manager owns the process-wide session: it reconciles the stored credential
// and identity into one in-memory Identity and is the only writer of both keys.
//
// Transitions (Restore, Login, Logout, expiry invalidation) are serialized.
// Snapshots never wait for restoration; they report Restoring instead.
type Manager struct {
	tokens     *TokenStore
	identities *IdentityStore
	decoder    *auth.Decoder
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	restoreOnce sync.Once
	readyOnce   sync.Once
	ready       chan struct{}

	opMu sync.Mutex

	mu        sync.RWMutex
	restoring bool
	identity  *domain.Identity
}

// NewManager builds a manager in the restoring, anonymous state.
func NewManager(store storage.Storage, decoder *auth.Decoder, opts Options) *Manager {
	if decoder == nil {
		decoder = auth.NewDecoder()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		tokens:     NewTokenStore(store),
		identities: NewIdentityStore(store),
		decoder:    decoder,
		dispatcher: opts.Dispatcher,
		logger:     logger.Named("session"),
		now:        clock,
		ready:      make(chan struct{}),
		restoring:  true,
	}
}

// Restore reconstructs the session from storage. It runs at most once; later
// calls, and calls after a Login or Logout, are no-ops. The session always ends
// ready; the returned error only reports a token store that could not be read.
func (m *Manager) Restore(ctx context.Context) error {
	var err error
	m.restoreOnce.Do(func() {
		m.opMu.Lock()
		defer m.opMu.Unlock()
		err = m.restore(ctx)
	})
	return err
}

func (m *Manager) restore(ctx context.Context) error {
	credential, found, err := m.tokens.Read(ctx)
	if err != nil {
		m.logger.Warn("token store unreadable; starting anonymous", zap.Error(err))
		m.finish(nil)
		return errorutil.NewStorageUnavailable(err)
	}
	if !found {
		m.finish(nil)
		m.publish(ctx, events.EventSessionRestored, events.SessionRestoredPayload{Source: SourceNone})
		return nil
	}

	// Persisted identity first, decoded credential second, anonymous last.
	steps := []struct {
		source string
		lookup func() lookup
	}{
		{SourceIdentity, func() lookup { return m.identities.load(ctx) }},
		{SourceCredential, func() lookup { return m.decodeGuest(credential) }},
	}

	for _, step := range steps {
		res := step.lookup()
		switch res.status {
		case lookupFound:
			identity := res.identity
			m.finish(&identity)
			m.logger.Info("session restored",
				zap.String("source", step.source),
				zap.Int64("subject_id", identity.ID),
				zap.String("role", string(identity.Role)))
			m.publish(ctx, events.EventSessionRestored, events.SessionRestoredPayload{Source: step.source, Identity: &identity})
			return nil
		case lookupMalformed:
			if step.source == SourceCredential {
				m.logger.Warn("stored credential malformed; clearing session", zap.Error(res.err))
				m.clearStorage(ctx)
				m.finish(nil)
				m.publish(ctx, events.EventCredentialMalformed, events.CredentialRejectedPayload{Reason: res.err.Error()})
				m.publish(ctx, events.EventSessionRestored, events.SessionRestoredPayload{Source: SourceNone})
				return nil
			}
			m.logger.Warn("persisted identity unusable; falling back to credential", zap.Error(res.err))
		case lookupAbsent:
		}
	}

	// unreachable: the credential step never reports absent
	m.finish(nil)
	return nil
}

// decodeGuest rebuilds a guest identity from the credential alone. Only guest
// credentials carry a room number; anything else, such as a staff token whose
// identity record was lost, cannot be restored this way.
func (m *Manager) decodeGuest(credential string) lookup {
	claims, err := m.decoder.Decode(credential)
	if err != nil {
		return lookup{status: lookupMalformed, err: err}
	}
	if claims.RoomNumber == "" {
		return lookup{status: lookupMalformed, err: fmt.Errorf("%w: no guest claims", auth.ErrMalformedCredential)}
	}
	return lookup{status: lookupFound, identity: domain.NewGuestIdentity(claims)}
}

// Login persists credential and adopts the identity it stands for. With a staff
// payload the identity comes from the payload alone; otherwise the credential is
// decoded into a guest identity.
func (m *Manager) Login(ctx context.Context, credential string, staff *domain.StaffPayload) (domain.Identity, error) {
	m.restoreOnce.Do(func() {})
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.tokens.Save(ctx, credential); err != nil {
		return domain.Identity{}, errorutil.NewStorageUnavailable(err)
	}

	var identity domain.Identity
	if staff != nil {
		identity = domain.NewStaffIdentity(*staff)
	} else {
		claims, err := m.decoder.Decode(credential)
		if err != nil {
			m.clearStorage(ctx)
			m.finish(nil)
			m.publish(ctx, events.EventCredentialMalformed, events.CredentialRejectedPayload{Reason: err.Error()})
			return domain.Identity{}, errorutil.NewMalformedCredential(err)
		}
		identity = domain.NewGuestIdentity(claims)
	}

	if err := m.identities.Save(ctx, identity); err != nil {
		if identity.IsStaff() {
			// a staff session cannot be rebuilt from its credential
			m.logger.Warn("staff identity not persisted; login abandoned", zap.Error(err))
			m.clearStorage(ctx)
			m.finish(nil)
			return domain.Identity{}, errorutil.NewStorageUnavailable(err)
		}
		// restore falls back to decoding the credential
		m.logger.Warn("identity not persisted", zap.Error(err))
	}

	m.finish(&identity)
	m.logger.Info("logged in", zap.Int64("subject_id", identity.ID), zap.String("role", string(identity.Role)))
	m.publish(ctx, events.EventSessionLoggedIn, events.SessionChangedPayload{Identity: &identity})
	return identity, nil
}

// Logout erases the stored credential and identity. It is idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	m.restoreOnce.Do(func() {})
	m.opMu.Lock()
	defer m.opMu.Unlock()

	previous := m.current()
	err := m.clearStorage(ctx)
	m.finish(nil)
	if previous != nil {
		m.logger.Info("logged out", zap.Int64("subject_id", previous.ID))
		m.publish(ctx, events.EventSessionLoggedOut, events.SessionChangedPayload{Identity: previous})
	}
	if err != nil {
		return errorutil.NewStorageUnavailable(err)
	}
	return nil
}

// Snapshot returns the current session after checking the stored credential
// at this point of use. A vanished or expired credential turns the session
// anonymous and clears storage, as does an undecodable guest credential.
func (m *Manager) Snapshot(ctx context.Context) Snapshot {
	m.mu.RLock()
	restoring, identity := m.restoring, m.identity
	m.mu.RUnlock()

	if restoring || identity == nil {
		return Snapshot{Restoring: restoring}
	}

	credential, found, err := m.tokens.Read(ctx)
	if err != nil {
		// a storage hiccup must not log the user out
		m.logger.Warn("token store unreadable during check", zap.Error(err))
		return Snapshot{Identity: copyIdentity(identity)}
	}
	if !found {
		m.invalidate(ctx, identity, events.EventCredentialMalformed, events.CredentialRejectedPayload{SubjectID: identity.ID, Reason: "credential missing"})
		return m.peek()
	}

	// staff credentials are opaque apart from their expiry
	if identity.IsStaff() {
		if exp, ok := m.decoder.ExpiresAt(credential); ok && m.now().After(exp) {
			m.invalidate(ctx, identity, events.EventCredentialExpired, events.CredentialRejectedPayload{SubjectID: identity.ID, ExpiredAt: exp})
			return m.peek()
		}
		return Snapshot{Identity: copyIdentity(identity)}
	}

	claims, err := m.decoder.Decode(credential)
	if err != nil {
		m.invalidate(ctx, identity, events.EventCredentialMalformed, events.CredentialRejectedPayload{SubjectID: identity.ID, Reason: err.Error()})
		return m.peek()
	}
	if claims.Expired(m.now()) {
		m.invalidate(ctx, identity, events.EventCredentialExpired, events.CredentialRejectedPayload{SubjectID: identity.ID, ExpiredAt: claims.ExpiresAt})
		return m.peek()
	}
	return Snapshot{Identity: copyIdentity(identity)}
}

// IsAuthenticated reports whether a usable identity is held.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Snapshot(ctx).IsAuthenticated()
}

// IsStaff reports whether a usable staff identity is held.
func (m *Manager) IsStaff(ctx context.Context) bool {
	return m.Snapshot(ctx).IsStaff()
}

// WaitReady blocks until restoration has finished or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Credential returns the stored bearer credential for outgoing requests.
func (m *Manager) Credential(ctx context.Context) (string, bool, error) {
	return m.tokens.Read(ctx)
}

// invalidate drops the session if it still holds checked. A login that
// happened since the check wins.
func (m *Manager) invalidate(ctx context.Context, checked *domain.Identity, eventType events.EventType, payload events.CredentialRejectedPayload) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.current() != checked {
		return
	}
	m.logger.Info("credential rejected at use", zap.String("event", string(eventType)), zap.Int64("subject_id", checked.ID))
	m.clearStorage(ctx)
	m.finish(nil)
	m.publish(ctx, eventType, payload)
}

func (m *Manager) clearStorage(ctx context.Context) error {
	return errors.Join(m.tokens.Clear(ctx), m.identities.Clear(ctx))
}

// finish sets the identity and leaves the restoring state.
func (m *Manager) finish(identity *domain.Identity) {
	m.mu.Lock()
	m.identity = identity
	m.restoring = false
	m.mu.Unlock()
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Manager) current() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

func (m *Manager) peek() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Restoring: m.restoring, Identity: copyIdentity(m.identity)}
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if m.dispatcher == nil {
		return
	}
	err := m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: m.now(),
		Payload:   payload,
	})
	if err != nil {
		m.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func copyIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}
