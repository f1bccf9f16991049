// Package lockguard detects and reclaims stale exclusive-access locks on a
// ledger store. A lock is only ever removed when the owning desktop
// application is provably not running; any doubt leaves the lock in place.
package lockguard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// ErrOwnerRunning means the lock cannot be reclaimed because the owning
// application currently holds the store open.
var ErrOwnerRunning = errors.New("owning application is running")

// probeTimeout bounds the process-table scan. On timeout or error the
// owner is assumed present.
const probeTimeout = 5 * time.Second

// LockPath returns the lock file path beside a store file.
func LockPath(storePath string) string {
	return storePath + ".LCK"
}

// Probe reports whether the owning application is currently running.
type Probe func(ctx context.Context) (bool, error)

// Guard clears stale locks before a store open.
type Guard struct {
	probe  Probe
	logger *zap.Logger
}

// New creates a Guard that probes the process table for ownerProcess
// (e.g. "gnucash").
func New(ownerProcess string, logger *zap.Logger) *Guard {
	return &Guard{probe: processProbe(ownerProcess), logger: logger}
}

// NewWithProbe creates a Guard with a custom probe. Used in tests.
func NewWithProbe(probe Probe, logger *zap.Logger) *Guard {
	return &Guard{probe: probe, logger: logger}
}

// EnsureOpenable clears the way for opening the store at path. If no lock
// file exists it succeeds immediately. If one exists and the owner is
// running it fails with ErrOwnerRunning and leaves the lock alone.
// Otherwise the stale lock is deleted best-effort: a deletion failure is
// logged but does not block the open attempt.
func (g *Guard) EnsureOpenable(path string) error {
	lock := LockPath(path)
	if _, err := os.Stat(lock); os.IsNotExist(err) {
		return nil
	}

	if g.ownerRunning() {
		return fmt.Errorf("cannot break lock %s: %w", lock, ErrOwnerRunning)
	}

	if err := os.Remove(lock); err != nil {
		g.logger.Warn("failed to remove stale lock file", zap.String("lock", lock), zap.Error(err))
		return nil
	}
	g.logger.Info("removed stale lock file", zap.String("lock", lock))
	return nil
}

// ownerRunning runs the probe with a bounded timeout. Only a successful
// "not running" answer permits reclamation; probe failures fail safe.
func (g *Guard) ownerRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	running, err := g.probe(ctx)
	if err != nil {
		g.logger.Warn("owner probe failed, assuming owner is running", zap.Error(err))
		return true
	}
	return running
}

// processProbe scans the process table for a process with the given name.
func processProbe(name string) Probe {
	return func(ctx context.Context) (bool, error) {
		procs, err := process.ProcessesWithContext(ctx)
		if err != nil {
			return false, fmt.Errorf("listing processes: %w", err)
		}
		for _, p := range procs {
			pname, err := p.NameWithContext(ctx)
			if err != nil {
				continue // process may have exited mid-scan
			}
			if strings.EqualFold(pname, name) {
				return true, nil
			}
		}
		return false, nil
	}
}
