package stakklang

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stakk"
)

func TestLexer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	input := `VAR x_1 42 /* comment */ "a\tb" PSH ; X S ´ ~ ?`
	tokens, err := Lex(input)
	if err != nil {
		t.Fatal(err)
	}
	expected := []stakk.TokType{Keyword, Identifier, Number, String, Push, Push,
		Times, Size, OperatorType("´"), '~', TypeOf, EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, have %d", len(expected), len(tokens))
	}
	for i, token := range tokens {
		t.Logf("token = %q with type %s", token.Lexeme(), TokenName(token.TokType()))
		if token.TokType() != expected[i] {
			t.Errorf("token #%d: expected type %s, have %s", i, TokenName(expected[i]),
				TokenName(token.TokType()))
		}
	}
	if v := TokenValue(tokens[3]); v != "a\tb" {
		t.Errorf("expected string token to be unescaped, is %q", v)
	}
	if tokens[1].Lexeme() != "x_1" || tokens[2].Lexeme() != "42" {
		t.Errorf("unexpected lexemes %q and %q", tokens[1].Lexeme(), tokens[2].Lexeme())
	}
}

func TestLexerSingleEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	for _, input := range []string{"", "   ", "/* */", "1 2 3", "{ }\n"} {
		tokens, err := Lex(input)
		if err != nil {
			t.Fatal(err)
		}
		eofs := 0
		for _, token := range tokens {
			if token.TokType() == EOF {
				eofs++
			}
		}
		if eofs != 1 || tokens[len(tokens)-1].TokType() != EOF {
			t.Errorf("expected exactly one trailing EOF for %q", input)
		}
	}
}

func TestKeywordsNeedExactMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	tokens, err := Lex("VARS Xs SIZE var")
	if err != nil {
		t.Fatal(err)
	}
	for _, token := range tokens[:4] {
		if token.TokType() != Identifier {
			t.Errorf("expected %q to be an identifier, is %s", token.Lexeme(),
				TokenName(token.TokType()))
		}
	}
}

func TestLexerErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	inputs := []string{
		`1 /* not closed`,
		`"not closed`,
		`"bad \q escape"`,
		`1 € 2`,
	}
	for _, input := range inputs {
		_, err := Lex(input)
		if err == nil {
			t.Errorf("expected lex error for %q", input)
			continue
		}
		t.Logf("error = %v", err)
		if e := stakk.AsError(err); e == nil || e.Kind != stakk.LexError {
			t.Errorf("expected error of kind lex error for %q, have %v", input, err)
		}
	}
}

func TestUnescape(t *testing.T) {
	s, err := Unescape(`\a\b\t\n\v\f\r\e\\\'\"`)
	if err != nil {
		t.Fatal(err)
	}
	if s != "\a\b\t\n\v\f\r\x1b\\'\"" {
		t.Errorf("unexpected unescaped string %q", s)
	}
	if _, err = Unescape(`abc\`); err == nil {
		t.Errorf("expected dangling backslash to be an error")
	}
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	cases := []struct {
		input, ast string
	}{
		{"", "(program)"},
		{"{ }", "(program (block))"},
		{"{ 1 2 3 }", "(program (block 1 2 3))"},
		{"VAR x 5 x", "(program (var x 5) x)"},
		{";3 ;4 +", "(program (push 3) (push 4) (cmd +))"},
		{`PSH "ab" PUL #`, `(program (push "ab") (pull) (pull))`},
		{"FUN f (a b) { RET a }", "(program (fun f a b (block (return a))))"},
		{"= ? 1 : 2", "(program (ternary (cmd =) 1 2))"},
		{"f(1 2)(3)", "(program (call (call f 1 2) 3))"},
		{"(1)(2)", "(program 1 2)"},
		{". X 3", "(program (cmd . (times 3)))"},
		{"(TYP x) (? y)", "(program (typeof x) (typeof y))"},
		{"WHL { BRK CON }", "(program (while (block (break) (continue))))"},
		{`IMP "lib.stk"`, `(program (import "lib.stk"))`},
		{"a ? b ? 1 : 2 : 3", "(program (ternary a (ternary b 1 2) 3))"},
	}
	for _, c := range cases {
		prog, err := Parse(c.input)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", c.input, err)
			continue
		}
		if ast := Format(prog); ast != c.ast {
			t.Errorf("for %q expected AST %s, have %s", c.input, c.ast, ast)
		}
	}
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.lang")
	defer teardown()
	//
	inputs := []string{
		"VAR x",                   // end of input instead of expression
		"FUN f { }",               // missing parameter list
		"FUN f (a b",              // unterminated parameter list
		"f(1 2",                   // unterminated argument list
		"{ 1 2",                   // unterminated scope
		"(1 2)",                   // missing ')'
		"1 ? 2",                   // missing ':'
		")",                       // unexpected token
		"99999999999999999999999", // out of range
	}
	for _, input := range inputs {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("expected parse error for %q", input)
			continue
		}
		t.Logf("error = %v", err)
		if e := stakk.AsError(err); e == nil || e.Kind != stakk.ParseError {
			t.Errorf("expected error of kind parse error for %q, have %v", input, err)
		}
	}
}

func TestGrammar(t *testing.T) {
	if err := VerifyGrammar(); err != nil {
		t.Error(err)
	}
}
