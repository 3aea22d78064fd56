// Package errors provides structured error types for loopline.
//
// Every failure that reaches a user carries a machine-readable [Code] so the
// CLI and the HTTP API can classify it without string matching. Errors raised
// while reading diagram source additionally carry the byte offset of the
// offending character, which callers turn into a line and column with
// dsl.LineCol.
//
// # Error Codes
//
// Codes are grouped by the stage that produces them:
//   - lexical: the source text does not follow the grammar
//   - semantic: the text parses but names are used inconsistently
//   - numeric: a layout or geometry computation degenerated
//   - INVALID_*: option and input validation failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.NewAt(errors.ErrCodeUnexpectedChar, 12, "unexpected token %q", c)
//	if errors.IsLexical(err) {
//	    line, col := dsl.LineCol(src, errors.Position(err))
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCache, origErr, "failed to read %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Lexical errors
	ErrCodeUnexpectedChar    Code = "UNEXPECTED_CHAR"
	ErrCodeUnterminatedAlias Code = "UNTERMINATED_ALIAS"
	ErrCodeMalformedArrow    Code = "MALFORMED_ARROW"
	ErrCodeMissingTerminator Code = "MISSING_TERMINATOR"

	// Semantic errors
	ErrCodeDuplicateVertex Code = "DUPLICATE_VERTEX"
	ErrCodeUndefinedVertex Code = "UNDEFINED_VERTEX"
	ErrCodeOperandType     Code = "OPERAND_TYPE"

	// Numeric errors
	ErrCodeDegenerate Code = "DEGENERATE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeCache    Code = "CACHE_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var lexical = map[Code]bool{
	ErrCodeUnexpectedChar:    true,
	ErrCodeUnterminatedAlias: true,
	ErrCodeMalformedArrow:    true,
	ErrCodeMissingTerminator: true,
}

var semantic = map[Code]bool{
	ErrCodeDuplicateVertex: true,
	ErrCodeUndefinedVertex: true,
	ErrCodeOperandType:     true,
}

// NoPos marks an error that is not tied to a source location.
const NoPos = -1

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Pos     int    // Byte offset into the source, or NoPos
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     NoPos,
	}
}

// NewAt creates a new Error anchored at a byte offset of the source text.
func NewAt(code Code, pos int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     NoPos,
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsLexical reports whether err was raised because the source does not
// follow the grammar.
func IsLexical(err error) bool {
	return lexical[GetCode(err)]
}

// IsSemantic reports whether err was raised because of an inconsistent use
// of vertex names.
func IsSemantic(err error) bool {
	return semantic[GetCode(err)]
}

// Position returns the source offset carried by err, or NoPos.
func Position(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Pos
	}
	return NoPos
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
