package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwright-dev/bookwright/internal/lockguard"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "assist")
	assert.Contains(t, names, "break-lock")
}

func TestBreakLockRemovesStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.ledger")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	lockPath := lockguard.LockPath(path)
	require.NoError(t, os.WriteFile(lockPath, []byte("gone-host:12345"), 0o644))

	_, err := run(t, "break-lock", path)
	require.NoError(t, err)
	assert.NoFileExists(t, lockPath)
}

func TestBreakLockWithoutLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.ledger")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	_, err := run(t, "break-lock", path)
	assert.NoError(t, err)
}

func TestServeRequiresLedgerFile(t *testing.T) {
	t.Setenv("LEDGER_FILE", "")
	t.Setenv("LEDGER_WRITE", "")
	t.Chdir(t.TempDir())

	out, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, out, "no ledger file configured")
}

func TestBreakLockRequiresArgument(t *testing.T) {
	_, err := run(t, "break-lock")
	assert.Error(t, err)
}
