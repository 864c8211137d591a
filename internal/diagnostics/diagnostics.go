// Package diagnostics carries structured errors for every stage of the
// toolchain. Each error holds a stable code and a 1-based source location so
// front ends can render a report pointing at the offending span.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/vira-language/vira/internal/token"
)

type ErrorCode string

const (
	// Lexical
	ErrL001 ErrorCode = "L001" // unterminated string literal
	ErrL002 ErrorCode = "L002" // unrecognized character

	// Syntactic
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing expected token
	ErrP003 ErrorCode = "P003" // recursion depth limit exceeded

	// Compile-time
	ErrC001 ErrorCode = "C001" // unsupported construct
	ErrC002 ErrorCode = "C002" // unknown import library
	ErrC003 ErrorCode = "C003" // duplicate function definition

	// Artifact
	ErrA001 ErrorCode = "A001" // bad magic number
	ErrA002 ErrorCode = "A002" // unsupported artifact version
	ErrA003 ErrorCode = "A003" // truncated or oversized stream
	ErrA004 ErrorCode = "A004" // missing terminator instruction

	// Runtime
	ErrR001 ErrorCode = "R001" // operand type mismatch
	ErrR002 ErrorCode = "R002" // undefined variable
	ErrR003 ErrorCode = "R003" // undefined function
	ErrR004 ErrorCode = "R004" // stack underflow
	ErrR005 ErrorCode = "R005" // unknown opcode
	ErrR006 ErrorCode = "R006" // reserved opcode
	ErrR007 ErrorCode = "R007" // arity mismatch
	ErrR008 ErrorCode = "R008" // stack or call depth limit exceeded
)

// Error is a diagnostic with enough context to render a source-anchored
// report. Line and Column are 1-based; Length is the span in characters.
// Runtime and artifact errors have no source location; they carry Offset,
// the byte offset into the instruction stream, and leave Line at zero.
type Error struct {
	Code    ErrorCode
	Message string
	File    string
	Line    int
	Column  int
	Length  int
	Offset  int
}

// New builds a diagnostic anchored at a token's position.
func New(code ErrorCode, tok token.Token, message string) *Error {
	length := len(tok.Literal)
	if length == 0 {
		length = 1
	}
	return &Error{
		Code:    code,
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
		Length:  length,
	}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(code ErrorCode, tok token.Token, format string, args ...interface{}) *Error {
	return New(code, tok, fmt.Sprintf(format, args...))
}

// NewAtOffset builds a diagnostic anchored at a bytecode offset.
func NewAtOffset(code ErrorCode, offset int, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("[%s] offset %d: %s", e.Code, e.Offset, e.Message)
}

// Render produces a human-readable report with the source line and a caret
// span pointing at the error location. Falls back to Error() when the
// diagnostic has no source anchor or the location is out of range.
func (e *Error) Render(source string) string {
	if e.Line <= 0 {
		return e.Error()
	}

	lines := strings.Split(source, "\n")
	if e.Line > len(lines) {
		return e.Error()
	}
	srcLine := lines[e.Line-1]

	var sb strings.Builder
	file := e.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(&sb, "error[%s]: %s\n", e.Code, e.Message)
	fmt.Fprintf(&sb, " --> %s:%d:%d\n", file, e.Line, e.Column)
	fmt.Fprintf(&sb, "  |\n")
	fmt.Fprintf(&sb, "%3d | %s\n", e.Line, srcLine)

	caretCol := e.Column
	if caretCol < 1 {
		caretCol = 1
	}
	length := e.Length
	if length < 1 {
		length = 1
	}
	if caretCol-1 > len(srcLine) {
		caretCol = len(srcLine) + 1
	}
	fmt.Fprintf(&sb, "  | %s%s\n", strings.Repeat(" ", caretCol-1), strings.Repeat("^", length))

	return sb.String()
}
