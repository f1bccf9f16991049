package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// guidLen is the length of a book GUID: 32 lowercase hex characters,
// a UUID with the dashes stripped.
const guidLen = 32

// New returns a fresh book GUID.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Validate checks that s is a well-formed book GUID.
func Validate(s string) error {
	if len(s) != guidLen {
		return fmt.Errorf("guid %q: expected %d hex chars, got %d", s, guidLen, len(s))
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("guid %q: invalid character %q", s, c)
		}
	}
	return nil
}
