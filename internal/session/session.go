// Package session holds the authenticated admin session and the other
// values the client persists between runs.
package session

import (
	"log/slog"
	"sync"

	"github.com/me/folio/internal/logging"
	"github.com/me/folio/pkg/model"
)

// Storage keys.
const (
	KeyToken = "adminToken"
	KeyTheme = "portfolio-theme"
)

// Session is a point-in-time view of the auth state.
type Session struct {
	Token           string
	User            *model.User
	IsAuthenticated bool
}

// Manager owns the persisted token and the in-memory user.
// It satisfies apiclient.TokenStore.
type Manager struct {
	store  Storage
	logger *slog.Logger

	mu   sync.RWMutex
	user *model.User
}

// NewManager wraps store. A nil logger discards output.
func NewManager(store Storage, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{store: store, logger: logging.Component(logger, "session")}
}

// Token returns the persisted token, or "" when there is none or the
// storage cannot be read.
func (m *Manager) Token() string {
	tok, _, err := m.store.Get(KeyToken)
	if err != nil {
		m.logger.Warn("read token", "error", err)
		return ""
	}
	return tok
}

// SetToken persists token.
func (m *Manager) SetToken(token string) error {
	return m.store.Set(KeyToken, token)
}

// ClearToken removes the persisted token and forgets the user.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return m.store.Delete(KeyToken)
}

// SetUser records the user returned by login.
func (m *Manager) SetUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u == nil {
		m.user = nil
		return
	}
	cp := *u
	m.user = &cp
}

// User returns the logged-in user, if known in this process.
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() Session {
	tok := m.Token()
	return Session{
		Token:           tok,
		User:            m.User(),
		IsAuthenticated: tok != "",
	}
}

// Theme returns the stored theme preference, defaulting to light.
func (m *Manager) Theme() model.Theme {
	v, _, err := m.store.Get(KeyTheme)
	if err != nil {
		m.logger.Warn("read theme", "error", err)
	}
	t := model.Theme(v)
	if !t.Valid() {
		return model.ThemeLight
	}
	return t
}

// SetTheme persists t.
func (m *Manager) SetTheme(t model.Theme) error {
	return m.store.Set(KeyTheme, string(t))
}
