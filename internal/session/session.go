// Package session owns the lifecycle of the currently open ledger store:
// at most one session is live at a time, and the exclusive lock is
// released on every exit path the process can intercept.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
)

// ErrNoSession means no ledger store is currently open.
var ErrNoSession = errors.New("no ledger file is open")

// Manager holds the process-wide session. The access mode is fixed for
// the Manager's lifetime; opening a new store implicitly closes the prior
// one. Operations are serial by contract, so no locking is needed here.
type Manager struct {
	mode   book.Mode
	guard  *lockguard.Guard
	logger *zap.Logger

	// configuredPath is the store path from startup configuration,
	// echoed in no-session errors as a hint to the caller.
	configuredPath string

	current     *book.Book
	cleanupOnce sync.Once
}

// NewManager creates a Manager for the given fixed access mode.
func NewManager(mode book.Mode, guard *lockguard.Guard, logger *zap.Logger) *Manager {
	return &Manager{mode: mode, guard: guard, logger: logger}
}

// SetConfiguredPath records the startup-configured store path for error
// hints.
func (m *Manager) SetConfiguredPath(path string) { m.configuredPath = path }

// ConfiguredPath returns the startup-configured store path, if any.
func (m *Manager) ConfiguredPath() string { return m.configuredPath }

// Mode returns the fixed access mode.
func (m *Manager) Mode() book.Mode { return m.mode }

// Current returns the open book, or ErrNoSession.
func (m *Manager) Current() (*book.Book, error) {
	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// Open opens the store at path in the Manager's mode. Any prior session
// is closed first, releasing its lock before the new one is acquired.
// When breakLock is set, a stale exclusive lock is reclaimed first; a
// lock held by the running owning application blocks the open.
func (m *Manager) Open(path string, breakLock bool) error {
	if m.current != nil {
		if err := m.closeCurrent(); err != nil {
			m.logger.Warn("error closing previous session", zap.Error(err))
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s: %w", path, fs.ErrNotExist)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if breakLock {
		if err := m.guard.EnsureOpenable(path); err != nil {
			return err
		}
	}

	b, err := book.Open(path, m.mode)
	if err != nil {
		return err
	}
	m.current = b
	m.logger.Info("ledger file opened",
		zap.String("path", path),
		zap.String("mode", string(m.mode)))
	return nil
}

// Save flushes the open book to disk. Without a session it fails with
// ErrNoSession; in read-only mode the underlying save is a no-op.
func (m *Manager) Save() error {
	if m.current == nil {
		return ErrNoSession
	}
	if err := m.current.Save(); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

// Close ends the session and releases the exclusive lock. It reports
// false when nothing was open.
func (m *Manager) Close() (bool, error) {
	if m.current == nil {
		return false, nil
	}
	return true, m.closeCurrent()
}

func (m *Manager) closeCurrent() error {
	b := m.current
	m.current = nil
	if err := b.Close(); err != nil {
		return err
	}
	m.logger.Info("ledger session closed, lock released", zap.String("path", b.Path()))
	return nil
}

// ShutdownCleanup runs exactly once at process exit. A read-write session
// is saved before it ends. The process is terminating, so failures here
// are logged and swallowed.
func (m *Manager) ShutdownCleanup() {
	m.cleanupOnce.Do(func() {
		if m.current == nil {
			return
		}
		if m.mode == book.ModeReadWrite {
			if err := m.current.Save(); err != nil {
				m.logger.Error("auto-save on exit failed", zap.Error(err))
			} else {
				m.logger.Info("changes saved automatically on exit")
			}
		}
		if err := m.closeCurrent(); err != nil {
			m.logger.Error("error during exit cleanup", zap.Error(err))
		}
	})
}
