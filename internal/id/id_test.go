package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	g := New()
	require.NoError(t, Validate(g))
	assert.Len(t, g, 32)
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		g := New()
		assert.False(t, seen[g], "duplicate guid %s", g)
		seen[g] = true
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		guid    string
		wantErr bool
	}{
		{"ab12cd34ef56ab12cd34ef56ab12cd34", false},
		{"short", true},
		{"AB12CD34EF56AB12CD34EF56AB12CD34", true}, // uppercase rejected
		{"zz12cd34ef56ab12cd34ef56ab12cd34", true},
		{"", true},
	}
	for _, tt := range tests {
		err := Validate(tt.guid)
		if tt.wantErr {
			assert.Error(t, err, "Validate(%q)", tt.guid)
		} else {
			assert.NoError(t, err, "Validate(%q)", tt.guid)
		}
	}
}
