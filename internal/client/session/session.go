// Package session holds the client's in-memory view of who is logged in.
package session

import (
	"log/slog"
	"sync"

	"github.com/okapibank/okapi/internal/client/credstore"
)

// LoginRoute is where forced invalidation sends the user.
const LoginRoute = "/login"

// Profile is the optional identity enrichment fetched from /auth/me. It may
// be absent even while authenticated.
type Profile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Session is the derived, non-authoritative view of authentication state.
// Invariant: Authenticated is true exactly when Token is non-empty; the
// Manager maintains this by always writing the pair together.
type Session struct {
	Authenticated bool
	Token         string
	Role          string
	User          *Profile
}

// Manager owns the single writer path over Session and the credential store.
// Views, guards, and the gateway read via Current and react via Subscribe;
// only login, logout, hydrate, and forced invalidation mutate.
type Manager struct {
	store    credstore.Store
	navigate func(route string)
	logger   *slog.Logger

	mu          sync.RWMutex
	current     Session
	subscribers map[int]func(Session)
	nextSub     int
}

// NewManager builds a session manager over the given store. navigate is
// invoked on forced invalidation to return the user to the public login
// entry point; nil disables navigation (headless callers).
func NewManager(store credstore.Store, navigate func(route string), logger *slog.Logger) *Manager {
	return &Manager{
		store:       store,
		navigate:    navigate,
		logger:      logger,
		subscribers: make(map[int]func(Session)),
	}
}

// Current returns the session as of now. Callers must re-read at every point
// of use rather than holding a copy across I/O; a concurrent invalidation
// changes the answer.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe registers fn to run after every session change. The returned
// cancel function removes the subscription.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// Hydrate restores the session from the credential store. Called once at
// boot, before any network activity. The profile stays nil until the view
// layer fetches it.
func (m *Manager) Hydrate() {
	cred := m.store.Load()
	if cred == nil {
		return
	}
	m.set(Session{Authenticated: true, Token: cred.Token, Role: cred.Role})
	if m.logger != nil {
		m.logger.Debug("session hydrated", slog.String("role", cred.Role))
	}
}

// Login persists the credential and swaps in the authenticated session
// atomically: no reader ever observes a token without the authenticated flag
// or vice versa.
func (m *Manager) Login(token, role string) {
	m.store.Save(credstore.Credential{Token: token, Role: role})
	m.set(Session{Authenticated: true, Token: token, Role: role})
}

// SetProfile attaches the lazily fetched profile to the current session. A
// no-op when the session ended between fetch and delivery.
func (m *Manager) SetProfile(p *Profile) {
	m.mu.Lock()
	if !m.current.Authenticated {
		m.mu.Unlock()
		return
	}
	m.current.User = p
	next := m.current
	subs := m.snapshotSubscribers()
	m.mu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
}

// Logout clears the credential store and resets the session to its zero
// value. Idempotent.
func (m *Manager) Logout() {
	m.store.Clear()
	m.set(Session{})
}

// ForceInvalidate is the gateway-triggered variant of Logout: same state
// effect, plus navigation to the public login route so the user never
// remains on a protected screen without a session. It completes before
// returning, so the triggering request's caller observes the reset session.
func (m *Manager) ForceInvalidate() {
	m.store.Clear()
	m.set(Session{})
	if m.logger != nil {
		m.logger.Info("session invalidated by server")
	}
	if m.navigate != nil {
		m.navigate(LoginRoute)
	}
}

// set swaps the session and notifies subscribers synchronously.
func (m *Manager) set(next Session) {
	m.mu.Lock()
	m.current = next
	subs := m.snapshotSubscribers()
	m.mu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
}

// snapshotSubscribers copies the callback list. Caller holds the lock.
func (m *Manager) snapshotSubscribers() []func(Session) {
	subs := make([]func(Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
