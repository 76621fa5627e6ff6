package html

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/parse/v2"
)

// ErrorKind classifies engine failures.
type ErrorKind uint32

const (
	// InvalidUTF8 means the input is not valid UTF-8.
	InvalidUTF8 ErrorKind = iota
	// UnterminatedConstruct means a tag, comment or raw-text region has no
	// closing delimiter before the end of input.
	UnterminatedConstruct
	// InputTooLarge means the input exceeds the configured byte ceiling.
	InputTooLarge
	// Internal means a pipeline invariant was violated.
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidUTF8:
		return "invalid UTF-8"
	case UnterminatedConstruct:
		return "unterminated construct"
	case InputTooLarge:
		return "input too large"
	}
	return "internal error"
}

// Error is a classified minification error with the position at which it
// occurred. It is created per call and never stored in shared state.
type Error struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Line    int
	Column  int
	Context string
}

// NewError returns an error of the given kind located at offset within r.
func NewError(kind ErrorKind, r *parse.Input, offset int, format string, args ...interface{}) *Error {
	line, column, context := parse.Position(bytes.NewReader(r.Bytes()), offset)
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  column,
		Context: context,
	}
}

// Error returns the error message with its line and column.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s on line %d and column %d\n%s", e.Kind, e.Message, e.Line, e.Column, e.Context)
}
