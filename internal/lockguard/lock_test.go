package lockguard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeLock(t *testing.T, store string) string {
	t.Helper()
	lock := LockPath(store)
	require.NoError(t, os.WriteFile(lock, []byte("host:1234"), 0o644))
	return lock
}

func probeReturning(running bool, err error) Probe {
	return func(context.Context) (bool, error) { return running, err }
}

func TestEnsureOpenableNoLock(t *testing.T) {
	store := filepath.Join(t.TempDir(), "books.ledger")
	g := NewWithProbe(probeReturning(true, nil), zap.NewNop())
	assert.NoError(t, g.EnsureOpenable(store))
}

func TestEnsureOpenableOwnerRunning(t *testing.T) {
	store := filepath.Join(t.TempDir(), "books.ledger")
	lock := writeLock(t, store)

	g := NewWithProbe(probeReturning(true, nil), zap.NewNop())
	err := g.EnsureOpenable(store)
	require.ErrorIs(t, err, ErrOwnerRunning)

	// The lock must never be deleted while the owner is alive.
	_, statErr := os.Stat(lock)
	assert.NoError(t, statErr)
}

func TestEnsureOpenableReclaimsStaleLock(t *testing.T) {
	store := filepath.Join(t.TempDir(), "books.ledger")
	lock := writeLock(t, store)

	g := NewWithProbe(probeReturning(false, nil), zap.NewNop())
	require.NoError(t, g.EnsureOpenable(store))

	_, statErr := os.Stat(lock)
	assert.True(t, os.IsNotExist(statErr), "stale lock should be removed")
}

func TestEnsureOpenableProbeFailureFailsSafe(t *testing.T) {
	store := filepath.Join(t.TempDir(), "books.ledger")
	lock := writeLock(t, store)

	g := NewWithProbe(probeReturning(false, errors.New("ps unavailable")), zap.NewNop())
	err := g.EnsureOpenable(store)
	require.ErrorIs(t, err, ErrOwnerRunning)

	_, statErr := os.Stat(lock)
	assert.NoError(t, statErr, "lock must survive an inconclusive probe")
}

func TestLockPath(t *testing.T) {
	assert.Equal(t, "/tmp/x.ledger.LCK", LockPath("/tmp/x.ledger"))
}
