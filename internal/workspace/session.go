package workspace

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEditInProgress is returned while a configuration UI holds an edit session.
	ErrEditInProgress = errors.New("workspace configuration is being edited")
	// ErrNoEditSession is returned for an unknown or expired session token.
	ErrNoEditSession = errors.New("no matching edit session")
)

// EditSession marks a configuration UI as open. Switching is refused while
// a session is live.
type EditSession struct {
	Token     string    `json:"token"`
	Owner     string    `json:"owner"`
	Started   time.Time `json:"started"`
	LastTouch time.Time `json:"last_touch"`
}

// BeginEdit opens an edit session. Only one session may be open at a time.
func (m *Manager) BeginEdit(owner string) (EditSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionLive() {
		return EditSession{}, ErrEditInProgress
	}

	now := m.now()
	m.session = &EditSession{
		Token:     uuid.NewString(),
		Owner:     owner,
		Started:   now,
		LastTouch: now,
	}
	m.logger.Info("edit session started", "owner", owner)
	return *m.session, nil
}

// TouchEdit keeps a session alive.
func (m *Manager) TouchEdit(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessionLive() || m.session.Token != token {
		return ErrNoEditSession
	}
	m.session.LastTouch = m.now()
	return nil
}

// EndEdit closes a session.
func (m *Manager) EndEdit(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessionLive() || m.session.Token != token {
		return ErrNoEditSession
	}
	m.logger.Info("edit session ended", "owner", m.session.Owner)
	m.session = nil
	return nil
}

// ActiveEdit returns the live session, if any.
func (m *Manager) ActiveEdit() (EditSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessionLive() {
		return EditSession{}, false
	}
	return *m.session, true
}

// sessionLive reports whether a session is open, dropping it once idle past
// the timeout.
func (m *Manager) sessionLive() bool {
	if m.session == nil {
		return false
	}
	if m.sessionTimeout > 0 && m.now().Sub(m.session.LastTouch) > m.sessionTimeout {
		m.logger.Warn("edit session expired", "owner", m.session.Owner, "idle", m.now().Sub(m.session.LastTouch))
		m.session = nil
		return false
	}
	return true
}
