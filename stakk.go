package stakk

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Constants for the token types of the
// language are defined in package stakklang.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a string literal:
//
//    TokType = String      // identifier for this kind of tokens
//    Lexeme  = "\"a\\n\""  // lexeme how it appeared in the input stream
//    Value   = "a\n"       // unescaped contents
//    Span    = 67…73       // occured from byte position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// Positioned is implemented by tokens which know their line and column.
type Positioned interface {
	Pos() Position
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span
// denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Positions --------------------------------------------------------

// Position is a line/column location within a source text. Lines and columns
// start at 1. The zero value denotes an unknown position.
type Position struct {
	Line   int
	Column int
}

// IsKnown is a predicate: does p denote a real source location?
func (p Position) IsKnown() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsKnown() {
		return "?:?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
