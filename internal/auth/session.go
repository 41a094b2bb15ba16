package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStore defines the persistence contract for session tokens. The
// store is responsible for enforcing expiration.
type SessionStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, bool, error)
	Delete(ctx context.Context, token string) error
}

// ErrInvalidUserID is returned when attempting to create a session without a
// user identifier.
var ErrInvalidUserID = errors.New("userID is required")

// SessionOption configures a SessionManager instance.
type SessionOption func(*SessionManager)

// WithStore injects a custom SessionStore implementation.
func WithStore(store SessionStore) SessionOption {
	return func(m *SessionManager) {
		m.store = store
	}
}

// WithTokenFactory overrides token generation, primarily for tests.
func WithTokenFactory(factory func() string) SessionOption {
	return func(m *SessionManager) {
		if factory != nil {
			m.tokenFactory = factory
		}
	}
}

// SessionManager coordinates session creation and resolution against a
// backing store.
type SessionManager struct {
	store        SessionStore
	ttl          time.Duration
	tokenFactory func() string
}

// NewSessionManager constructs a SessionManager with the provided TTL and
// options. The manager defaults to a 24-hour TTL and an in-memory store for
// local development when no store is supplied.
func NewSessionManager(ttl time.Duration, opts ...SessionOption) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	manager := &SessionManager{
		ttl:          ttl,
		tokenFactory: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(manager)
		}
	}
	if manager.store == nil {
		manager.store = NewMemorySessionStore()
	}
	return manager
}

// Create issues a new session token for the provided user identifier.
func (m *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	token := m.tokenFactory()
	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks the token up in the backing store and returns the associated
// user id. An unknown or expired token resolves to ok=false with a nil error;
// store failures surface as errors so callers can distinguish "no session"
// from "store unavailable".
func (m *SessionManager) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	return m.store.Get(ctx, token)
}

// Revoke deletes the session token from the backing store.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// Ping verifies the underlying session store is reachable when it exposes a
// ping method.
func (m *SessionManager) Ping(ctx context.Context) error {
	if m == nil || m.store == nil {
		return nil
	}
	if pinger, ok := m.store.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}
