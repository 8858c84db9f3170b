package lexmach

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/scanner"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'stakk.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("stakk.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("VAR", "FUN", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(name), MakeToken(name, tokenIds[name]))
	}
	for _, lit := range literals {
		adapter.Lexer.Add([]byte(QuoteLiteral(lit)), MakeToken(lit, tokenIds[lit]))
	}
	init(adapter.Lexer)
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// QuoteLiteral escapes every ASCII character of lit, making it a regular
// expression matching lit verbatim. Non-ASCII characters are passed as their
// UTF-8 bytes, which lexmachine matches literally.
func QuoteLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if r < utf8.RuneSelf {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: scanner.LogError, endLine: 1, endCol: 1}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	endLine int // position just behind the last token
	endCol  int
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = scanner.LogError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface.
//
// Errors are reported to the error handler. Unconsumed input is skipped, and
// scanning continues behind it.
func (lms *LMScanner) NextToken() stakk.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
			if ui.FailTC <= ui.StartTC {
				lms.scanner.TC = ui.StartTC + 1
			}
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		end := uint64(len(lms.scanner.Text))
		return scanner.NewToken(scanner.EOF, "EOF", nil, stakk.Span{end, end},
			stakk.Position{Line: lms.endLine, Column: lms.endCol})
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	lms.endLine, lms.endCol = token.EndLine, token.EndColumn+1
	return scanner.NewToken(
		stakk.TokType(token.Type),
		string(token.Lexeme),
		token.Value,
		stakk.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
		stakk.Position{Line: token.StartLine, Column: token.StartColumn},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
