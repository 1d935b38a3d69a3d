package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteName(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"c", 60}, // default octave is 4
		{"c4", 60},
		{"a4", 69},
		{"c#3", 49},
		{"cs3", 49},
		{"db3", 49}, // enharmonic with c#3
		{"eb3", 51},
		{"e-3", 51}, // '-' spells the same flat
		{"E-3", 51},
		{"b3", 59},
		{"bb3", 58},
		{"f##4", 67},
		{"a0", 21},
		{"g9", 127},
		{"0", 0},   // bare integers are raw MIDI numbers
		{"64", 64},
		{"127", 127},
	}
	for _, tt := range tests {
		got, err := parseNoteName(tt.word)
		require.NoError(t, err, tt.word)
		assert.Equal(t, tt.want, got, tt.word)
	}
}

func TestParseNoteName_Errors(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"", "empty note name"},
		{"x5", "unknown note name"},
		{"h3", "unknown note name"},
		{"c4x", "unknown note name"},
		{"128", "out of range 0..127"},
		{"-1", "out of range 0..127"},
		{"c99", "outside the MIDI range"},
	}
	for _, tt := range tests {
		_, err := parseNoteName(tt.word)
		require.Error(t, err, tt.word)
		assert.Contains(t, err.Error(), tt.want, tt.word)
	}
}
