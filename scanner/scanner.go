/*
Package scanner defines an interface for scanners to be used with the parser of
package stakklang.

A default scanner implementation is provided as an adapter for lexmachine,
living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stakk"
)

// tracer traces with key 'stakk.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("stakk.scanner")
}

// EOF is the token type signalling the end of input. It is identical to
// text/scanner.EOF.
const EOF stakk.TokType = -1

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() stakk.Token
	SetErrorHandler(func(error))
}

// LogError is the default error reporting function for scanners.
func LogError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is an unsophisticated token type, used as default for the
// lexmachine scanner.
type DefaultToken struct {
	kind   stakk.TokType
	lexeme string
	Val    interface{}
	span   stakk.Span
	pos    stakk.Position
}

var _ stakk.Token = DefaultToken{}
var _ stakk.Positioned = DefaultToken{}

// NewToken creates a token carrying a value and a line/column position.
func NewToken(typ stakk.TokType, lexeme string, value interface{}, span stakk.Span,
	pos stakk.Position) DefaultToken {
	//
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		Val:    value,
		span:   span,
		pos:    pos,
	}
}

func (t DefaultToken) TokType() stakk.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() stakk.Span {
	return t.span
}

// Pos returns the line/column position of the token's first character.
func (t DefaultToken) Pos() stakk.Position {
	return t.pos
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("<%d|%q @%s>", t.kind, t.lexeme, t.pos)
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case stakk.Token:
		return t.Lexeme()
	default:
		return fmt.Sprintf("%v", t)
	}
}
