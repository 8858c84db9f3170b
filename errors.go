package stakk

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// ErrorKind categorizes errors by the phase which detected them.
type ErrorKind int8

// Error kinds. Every error of the language is fatal for the program run which
// raised it.
const (
	LexError ErrorKind = iota + 1
	ParseError
	RuntimeError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case RuntimeError:
		return "runtime error"
	}
	return "error"
}

// Error is the single error type of the language. Lexer, parser and interpreter
// report every failure through it.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  Position
}

func (e *Error) Error() string {
	if e.Pos.IsKnown() {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Errorf creates a new error of kind k at position pos, wrapped with a stack
// trace of the caller.
func Errorf(k ErrorKind, pos Position, format string, args ...interface{}) error {
	return tracerr.Wrap(&Error{
		Kind: k,
		Msg:  fmt.Sprintf(format, args...),
		Pos:  pos,
	})
}

// AsError extracts an *Error from err, looking through stack-trace wrappers.
// It returns nil if err does not carry an *Error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(tracerr.Unwrap(err), &e) {
		return e
	}
	return nil
}

// ErrHalt is returned when a program executes the halt command. It is not a
// failure: clients usually treat it like regular program termination.
var ErrHalt = errors.New("program halted")

// IsHalt is a predicate: did err stem from the halt command?
func IsHalt(err error) bool {
	return err != nil && errors.Is(tracerr.Unwrap(err), ErrHalt)
}
