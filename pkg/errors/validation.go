package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSourceSize bounds diagram source accepted from untrusted callers.
const MaxSourceSize = 256 << 10

// ValidateSource checks diagram source for safety before it reaches the
// parser. Grammar errors are left to the parser; this only rejects input no
// diagram could legitimately contain:
//   - invalid UTF-8
//   - null bytes or control characters other than whitespace
//   - more than MaxSourceSize bytes
func ValidateSource(src string) error {
	if len(src) > MaxSourceSize {
		return New(ErrCodeInvalidInput, "source too large (max %d bytes)", MaxSourceSize)
	}
	if !utf8.ValidString(src) {
		return New(ErrCodeInvalidInput, "source is not valid UTF-8")
	}
	for i, r := range src {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return NewAt(ErrCodeInvalidInput, i, "source contains control character %U", r)
		}
	}
	return nil
}

// ValidatePath validates an output path supplied through the HTTP API or a
// config file. It prevents path traversal and absurd lengths.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
