package stakklang

import (
	"fmt"

	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/scanner"
)

// Token types of the language. Punctuation tokens use the code point of their
// character as token type.
const (
	EOF                      = scanner.EOF
	Number     stakk.TokType = 1
	String     stakk.TokType = 2
	Identifier stakk.TokType = 3
	Keyword    stakk.TokType = 4
)

// Token types with a special meaning to the parser.
const (
	Push      stakk.TokType = ';'
	Pull      stakk.TokType = '#'
	TypeOf    stakk.TokType = '?'
	Times     stakk.TokType = 'X'
	Size      stakk.TokType = 'S'
	LParen    stakk.TokType = '('
	RParen    stakk.TokType = ')'
	LBrace    stakk.TokType = '{'
	RBrace    stakk.TokType = '}'
	Separator stakk.TokType = ':' // ternary branch separator, dup elsewhere
)

// Keywords recognized by the lexer.
const (
	KwVar      = "VAR"
	KwFun      = "FUN"
	KwWhile    = "WHL"
	KwBreak    = "BRK"
	KwContinue = "CON"
	KwReturn   = "RET"
	KwImport   = "IMP"
)

var keywords = []string{KwVar, KwFun, KwWhile, KwBreak, KwContinue, KwReturn, KwImport}

// operatorKeywords are spelled like keywords, but lex to the token type of the
// punctuation character they alias.
var operatorKeywords = map[string]stakk.TokType{
	"PSH": Push,
	"PUL": Pull,
	"TYP": TypeOf,
	"X":   Times,
	"S":   Size,
}

// Operators is the table of punctuation tokens. The lexer always prefers the
// longest matching operator.
var Operators = []string{
	"`", "´", "~", "!", "@", "#", "$", "%", "^", "&", "*", "(", ")", "_", "-",
	"+", "=", "{", "}", "[", "]", "|", "\\", ":", ";", "'", ",", "<", ">", ".",
	"/", "?",
}

// tokenIds maps keyword and operator spellings to token types.
var tokenIds map[string]int

func initTokenIds() {
	tokenIds = make(map[string]int, len(keywords)+len(operatorKeywords)+len(Operators))
	for _, kw := range keywords {
		tokenIds[kw] = int(Keyword)
	}
	for kw, typ := range operatorKeywords {
		tokenIds[kw] = int(typ)
	}
	for _, op := range Operators {
		tokenIds[op] = int(OperatorType(op))
	}
}

// OperatorType returns the token type for an operator spelling. For
// single-character operators this is the code point of the character.
func OperatorType(op string) stakk.TokType {
	for _, r := range op {
		return stakk.TokType(r)
	}
	return EOF
}

// TokenName is a stakk.TokTypeStringer for the token types of the language.
func TokenName(t stakk.TokType) string {
	switch t {
	case EOF:
		return "EOF"
	case Number:
		return "number"
	case String:
		return "string"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	}
	if t > 0 {
		return string(rune(t))
	}
	return fmt.Sprintf("<token %d>", int(t))
}

var _ stakk.TokTypeStringer = TokenName
