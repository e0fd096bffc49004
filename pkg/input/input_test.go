package input_test

import (
	"strings"
	"testing"

	"github.com/aretw0/cvrguide/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		limit   int
		wantErr bool
	}{
		{"Under Default", input.DefaultMaxSize - 1, 0, false},
		{"Exact Default", input.DefaultMaxSize, 0, false},
		{"Over Default", input.DefaultMaxSize + 1, 0, true},
		{"Custom Limit", 11, 10, true},
		{"Within Custom", 5, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := input.Sanitize(strings.Repeat("a", tt.size), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, input.ErrTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Safe Controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := input.Sanitize(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	_, err := input.Sanitize("bad\xff", 0)
	assert.ErrorIs(t, err, input.ErrInvalidUTF8)
}

func TestPrepare(t *testing.T) {
	got, err := input.Prepare("  I LOST my Card\x00 \n", 0)
	require.NoError(t, err)
	assert.Equal(t, "i lost my card", got)

	got, err = input.Prepare("   ", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
