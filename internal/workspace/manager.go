package workspace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/deskswap/internal/platform"
)

var (
	ErrMonitorNotFound = errors.New("monitor not found")
	ErrLastWorkspace   = errors.New("cannot remove the only workspace of a monitor")
	ErrNotInitialized  = errors.New("workspace manager is not initialized")
)

// Options configures a Manager.
type Options struct {
	Backend     platform.Backend
	Persistence Persistence
	Logger      *slog.Logger

	// StealTrackedWindows removes captured windows from every other
	// workspace before assigning them, so a window is never tracked twice.
	StealTrackedWindows bool
	// EditSessionTimeout expires an idle edit session. Zero disables expiry.
	EditSessionTimeout time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Manager owns the monitor collection. Every operation holds the manager
// lock, so hotkey callbacks, IPC requests and the reconciler are serialized.
type Manager struct {
	mu sync.Mutex

	backend platform.Backend
	storage Persistence
	logger  *slog.Logger
	now     func() time.Time

	monitors    Collection
	initialized bool

	steal          bool
	sessionTimeout time.Duration
	session        *EditSession
}

// NewManager creates a manager. Initialize must be called before use.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	storage := opts.Persistence
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Manager{
		backend:        opts.Backend,
		storage:        storage,
		logger:         logger,
		now:            now,
		steal:          opts.StealTrackedWindows,
		sessionTimeout: opts.EditSessionTimeout,
	}
}

// SetStealTrackedWindows toggles capture de-duplication at runtime.
func (m *Manager) SetStealTrackedWindows(steal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steal = steal
}

// SetEditSessionTimeout changes the idle timeout for edit sessions.
func (m *Manager) SetEditSessionTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionTimeout = d
}

// Monitors returns a deep copy of the collection.
func (m *Manager) Monitors() Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monitors.Clone()
}

func (m *Manager) ready() error {
	if !m.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (m *Manager) save() error {
	if err := m.storage.Save(m.monitors); err != nil {
		return fmt.Errorf("failed to save workspace state: %w", err)
	}
	return nil
}

// reveal shows and enables a window. Failures mean the window closed and are
// only logged.
func (m *Manager) reveal(w platform.WindowID) bool {
	if err := m.backend.SetWindowVisible(w, true); err != nil {
		m.logger.Debug("show window failed", "window", w, "error", err)
		return false
	}
	if err := m.backend.SetWindowInputEnabled(w, true); err != nil {
		m.logger.Debug("enable window failed", "window", w, "error", err)
	}
	return true
}

func (m *Manager) conceal(w platform.WindowID) bool {
	if err := m.backend.SetWindowVisible(w, false); err != nil {
		m.logger.Debug("hide window failed", "window", w, "error", err)
		return false
	}
	if err := m.backend.SetWindowInputEnabled(w, false); err != nil {
		m.logger.Debug("disable window failed", "window", w, "error", err)
	}
	return true
}

// focusedMonitor returns the monitor under the cursor, or nil.
func (m *Manager) focusedMonitor() *Monitor {
	p, err := m.backend.CursorPosition()
	if err != nil {
		m.logger.Debug("cursor position unavailable", "error", err)
		return nil
	}
	handle, err := m.backend.DisplayAt(p)
	if err != nil {
		m.logger.Debug("no display under cursor", "x", p.X, "y", p.Y, "error", err)
		return nil
	}
	mon := m.monitors.ForDisplay(handle)
	if mon == nil {
		m.logger.Debug("display under cursor has no monitor", "display", handle)
	}
	return mon
}
