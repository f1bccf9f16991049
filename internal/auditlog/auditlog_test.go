package auditlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	first := Entry{
		Timestamp: time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC),
		Tool:      "get_account_balance",
		Args:      `{"account_name":"Checking"}`,
		Outcome:   "ok",
		Detail:    "Balance of Assets.Checking: 12.34 USD",
	}
	require.NoError(t, Append(path, []Entry{first}))

	second := Entry{
		Timestamp: time.Date(2025, 4, 5, 10, 1, 0, 0, time.UTC),
		Tool:      "add_transaction",
		Args:      `{"amount":5}`,
		Outcome:   "error",
		Detail:    "Error: Account 'x' not found.",
	}
	require.NoError(t, Append(path, []Entry{second}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])
}

func TestReadMissingFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntryBadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"only", "four", "fields", "here"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "t", "a", "ok", "d"})
	assert.Error(t, err)
}
