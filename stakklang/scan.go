package stakklang

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/scanner"
	"github.com/npillmayer/stakk/scanner/lexmach"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Regular expressions for the lexer. Unterminated comments and strings have
// patterns of their own, so they are reported instead of being skipped as
// unknown input. A terminated match is always longer than the corresponding
// unterminated one.
const (
	whitespacePattern  = "( |\t|\n|\r|\x0b|\x0c)+"
	commentPattern     = `/\*([^*]|\*+[^*/])*\*+/`
	openCommentPattern = `/\*([^*]|\*+[^*/])*\**`
	stringPattern      = `"([^"\\]|\\(.|\n))*"`
	openStringPattern  = `"([^"\\]|\\(.|\n))*\\?`
	numberPattern      = `[0-9]+`
	identifierPattern  = `([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_)*`
)

// escapes is the table of escape characters allowed in string literals.
var escapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'v':  '\v',
	'f':  '\f',
	'r':  '\r',
	'e':  0x1b,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

var lexer *lexmach.LMAdapter
var lexerErr error
var lexerOnce sync.Once // monitors one-time creation of the lexer

// Lexer returns the lexmachine adapter for the language. The DFA is compiled
// once and shared by all scanners.
func Lexer() (*lexmach.LMAdapter, error) {
	lexerOnce.Do(func() {
		initTokenIds()
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(whitespacePattern), lexmach.Skip)
			lexer.Add([]byte(commentPattern), lexmach.Skip)
			lexer.Add([]byte(openCommentPattern), failure("unterminated comment"))
			lexer.Add([]byte(stringPattern), makeString)
			lexer.Add([]byte(openStringPattern), failure("unterminated string"))
			lexer.Add([]byte(numberPattern), lexmach.MakeToken("number", int(Number)))
			lexer.Add([]byte(identifierPattern), lexmach.MakeToken("identifier", int(Identifier)))
		}
		kw := make([]string, 0, len(keywords)+len(operatorKeywords))
		kw = append(kw, keywords...)
		for k := range operatorKeywords {
			kw = append(kw, k)
		}
		tracer().Infof("Creating lexer")
		lexer, lexerErr = lexmach.NewLMAdapter(init, Operators, kw, tokenIds)
	})
	return lexer, lexerErr
}

// Lex converts a source text into a sequence of tokens, terminated by exactly
// one EOF token. The first lexical error stops scanning and is returned.
func Lex(source string) ([]stakk.Token, error) {
	lex, err := Lexer()
	if err != nil {
		return nil, stakk.Errorf(stakk.LexError, stakk.Position{}, "cannot create lexer: %v", err)
	}
	scan, err := lex.Scanner(source)
	if err != nil {
		return nil, stakk.Errorf(stakk.LexError, stakk.Position{}, "%v", err)
	}
	var lexErr error
	scan.SetErrorHandler(func(e error) {
		if lexErr == nil {
			lexErr = lexError(e)
		}
	})
	var tokens []stakk.Token
	for {
		token := scan.NextToken()
		if lexErr != nil {
			return nil, lexErr
		}
		tokens = append(tokens, token)
		if token.TokType() == EOF {
			break
		}
	}
	tracer().Debugf("lexed %d tokens", len(tokens))
	return tokens, nil
}

// lexError converts errors reported by lexmachine into errors of kind
// stakk.LexError.
func lexError(err error) error {
	switch e := err.(type) {
	case *machines.UnconsumedInput:
		c := "?"
		if e.StartTC >= 0 && e.StartTC < len(e.Text) {
			r, _ := utf8.DecodeRune(e.Text[e.StartTC:])
			c = string(r)
		}
		return stakk.Errorf(stakk.LexError, stakk.Position{Line: e.StartLine, Column: e.StartColumn},
			"unknown character %q", c)
	}
	if stakk.AsError(err) != nil {
		return err
	}
	return stakk.Errorf(stakk.LexError, stakk.Position{}, "%v", err)
}

func matchPos(m *machines.Match) stakk.Position {
	return stakk.Position{Line: m.StartLine, Column: m.StartColumn}
}

// failure is a lexmachine action reporting a fatal lexical error.
func failure(msg string) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return nil, stakk.Errorf(stakk.LexError, matchPos(m), msg)
	}
}

// makeString is a lexmachine action for string literals. The token's value is
// the unescaped contents of the literal.
func makeString(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	text, err := Unescape(string(m.Bytes[1 : len(m.Bytes)-1]))
	if err != nil {
		return nil, stakk.Errorf(stakk.LexError, matchPos(m), "%v", err)
	}
	return s.Token(int(String), text, m), nil
}

// Unescape resolves escape sequences of a string literal's contents.
func Unescape(lit string) (string, error) {
	if strings.IndexByte(lit, '\\') < 0 {
		return lit, nil
	}
	var b strings.Builder
	for i := 0; i < len(lit); i++ {
		if lit[i] != '\\' {
			b.WriteByte(lit[i])
			continue
		}
		i++
		if i == len(lit) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		c, ok := escapes[lit[i]]
		if !ok {
			return "", fmt.Errorf("unknown escape sequence '\\%c'", lit[i])
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// TokenValue returns a token's value as a string, falling back to its lexeme.
func TokenValue(t stakk.Token) string {
	if s, ok := t.Value().(string); ok {
		return s
	}
	return scanner.Lexeme(t)
}

// TokenPos returns the line/column position of a token, if known.
func TokenPos(t stakk.Token) stakk.Position {
	if p, ok := t.(stakk.Positioned); ok {
		return p.Pos()
	}
	return stakk.Position{}
}
