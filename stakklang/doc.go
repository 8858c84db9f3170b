/*
Package stakklang provides the lexer and the parser for the stakk language.

Source text is turned into tokens by a DFA generated with lexmachine (see
Lex), and tokens are turned into an abstract syntax tree by a
recursive-descent parser (see Parse). The grammar is expression oriented:
every construct, including declarations and loops, may appear wherever an
expression is expected. GrammarEBNF holds the grammar in EBNF notation.

Lexing and parsing errors are reported as *stakk.Error, of kind
stakk.LexError or stakk.ParseError.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package stakklang

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'stakk.lang'
func tracer() tracing.Trace {
	return tracing.Select("stakk.lang")
}
