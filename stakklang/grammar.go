package stakklang

import (
	"strings"

	"golang.org/x/exp/ebnf"
)

// GrammarEBNF is the grammar of the language in EBNF notation, as understood
// by golang.org/x/exp/ebnf. Lower-case productions are lexical. Whitespace and
// comments (/* … */) may appear between tokens.
const GrammarEBNF = `
Program     = { Expr } .
Expr        = Call { "?" Expr ":" Expr } .
Call        = Primary { "(" { Expr } ")" } .
Primary     = identifier | number | string
            | "(" Expr ")" | Block | KeywordStmt
            | Push | TypeOf | Pull | Command .
Block       = "{" { Expr } "}" .
KeywordStmt = VarDecl | FnDecl | While | "BRK" | "CON" | Return | Import .
VarDecl     = "VAR" Expr Expr .
FnDecl      = "FUN" Primary "(" { Expr } ")" Expr .
While       = "WHL" Expr .
Return      = "RET" Expr .
Import      = "IMP" Expr .
Push        = ( ";" | "PSH" ) Expr .
TypeOf      = ( "?" | "TYP" ) Expr .
Pull        = "#" | "PUL" .
Command     = operator [ "X" Expr ] .

operator    = "´" | "~" | "!" | "@" | "$" | "%" | "^" | "&" | "*" | "_" | "-"
            | "+" | "=" | "[" | "]" | "|" | "\\" | ":" | "'" | "," | "<" | ">"
            | "." | "/" | "S" | "` + "`" + `" .
identifier  = letter { letter | digit | "_" } .
number      = digit { digit } .
string      = "\"" { char | escape } "\"" .
escape      = "\\" ( "a" | "b" | "t" | "n" | "v" | "f" | "r" | "e" | "\\" | "'" | "\"" ) .
char        = letter | digit | " " | operator | "(" | ")" | "{" | "}" | "#" | "?" | ";" .
letter      = "a" … "z" | "A" … "Z" .
digit       = "0" … "9" .
`

// Grammar parses GrammarEBNF.
func Grammar() (ebnf.Grammar, error) {
	return ebnf.Parse("stakk.ebnf", strings.NewReader(GrammarEBNF))
}

// VerifyGrammar checks that every production of the grammar is defined and
// reachable from production "Program".
func VerifyGrammar() error {
	g, err := Grammar()
	if err != nil {
		return err
	}
	return ebnf.Verify(g, "Program")
}
