package book

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookwright-dev/bookwright/internal/lockguard"
)

// Open loads the ledger store at path. Read-write opens acquire the
// exclusive lock file first and fail with ErrLocked when another writer
// holds it; read-only opens ignore locks entirely.
func Open(path string, mode Mode) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer f.Close()

	b := NewBook(path, mode)

	if mode == ModeReadWrite {
		if err := b.acquireLock(); err != nil {
			return nil, err
		}
	}

	if err := decodeInto(b, f); err != nil {
		b.releaseLock()
		return nil, fmt.Errorf("decoding store %s: %w", path, err)
	}
	return b, nil
}

// Save flushes the book to its backing file via an atomic temp-file
// rename. In read-only mode nothing has changed and Save is a no-op.
func (b *Book) Save() error {
	if b.mode == ModeReadOnly {
		return nil
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".bookwright-save-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := encode(b, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

// Close releases the exclusive lock if this book holds it. The in-memory
// tree stays readable but the store may now be opened by another writer.
func (b *Book) Close() error {
	return b.releaseLock()
}

func (b *Book) acquireLock() error {
	lock := lockguard.LockPath(b.path)
	f, err := os.OpenFile(lock, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("lock file %s exists: %w", lock, ErrLocked)
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	defer f.Close()

	host, _ := os.Hostname()
	// Informational only; reclamation decisions never parse this.
	fmt.Fprintf(f, "%s:%d", host, os.Getpid())
	b.ownsLock = true
	return nil
}

func (b *Book) releaseLock() error {
	if !b.ownsLock {
		return nil
	}
	b.ownsLock = false
	if err := os.Remove(lockguard.LockPath(b.path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}
