// Package input holds the transport-side policy applied to raw user text
// before it reaches the engine.
package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSize is 4KB.
const DefaultMaxSize = 4096

var (
	ErrTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
// Oversized input is rejected rather than truncated. A limit <= 0 means DefaultMaxSize.
func Sanitize(raw string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if len(raw) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, len(raw), limit)
	}
	if !utf8.ValidString(raw) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(raw, isUnsafeControl) < 0 {
		return raw, nil
	}
	return strings.Map(func(r rune) rune {
		if isUnsafeControl(r) {
			return -1
		}
		return r
	}, raw), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// Normalize trims surrounding whitespace and lower-cases, the form the classifier expects.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Prepare sanitizes then normalizes raw text.
func Prepare(raw string, limit int) (string, error) {
	clean, err := Sanitize(raw, limit)
	if err != nil {
		return "", err
	}
	return Normalize(clean), nil
}
