package stakklang

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/stakk"
	"github.com/ztrue/tracerr"
)

// Parse lexes and parses a source text. It returns the root Program of the
// abstract syntax tree.
func Parse(source string) (*Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a sequence of tokens, as produced by Lex. The sequence
// must be terminated by an EOF token.
func ParseTokens(tokens []stakk.Token) (prog *Program, err error) {
	p := &parser{tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			prog, err = nil, tracerr.Wrap(perr.err)
		}
	}()
	prog = p.parseProgram()
	tracer().Debugf("parsed program with %d statements", len(prog.Stmts))
	return prog, nil
}

// parseError is raised as a panic within the parser and recovered at the
// top level.
type parseError struct {
	err *stakk.Error
}

type parser struct {
	tokens []stakk.Token
	pos    int // index of the lookahead token
}

func (p *parser) fail(t stakk.Token, format string, args ...interface{}) {
	panic(parseError{&stakk.Error{
		Kind: stakk.ParseError,
		Msg:  fmt.Sprintf(format, args...),
		Pos:  TokenPos(t),
	}})
}

// peek returns the lookahead token. Reading beyond the end of the token
// sequence yields the final EOF token.
func (p *parser) peek() stakk.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return eofToken
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) next() stakk.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) is(typ stakk.TokType) bool {
	return p.peek().TokType() == typ
}

func (p *parser) expect(typ stakk.TokType, context string) stakk.Token {
	t := p.next()
	if t.TokType() != typ {
		p.fail(t, "expected '%s' %s, found '%s'", TokenName(typ), context, t.Lexeme())
	}
	return t
}

var eofToken = eofTok{}

// eofTok terminates token sequences which lack an EOF token.
type eofTok struct{}

func (eofTok) TokType() stakk.TokType { return EOF }
func (eofTok) Lexeme() string         { return "EOF" }
func (eofTok) Value() interface{}     { return nil }
func (eofTok) Span() stakk.Span       { return stakk.Span{} }

// --- Grammar rules ----------------------------------------------------------

// program := expr* EOF
func (p *parser) parseProgram() *Program {
	prog := &Program{node: node{At: TokenPos(p.peek())}}
	for !p.is(EOF) {
		prog.Stmts = append(prog.Stmts, p.parseExpr())
	}
	return prog
}

// expr := ternary
func (p *parser) parseExpr() Node {
	return p.parseTernary()
}

// ternary := call ( '?' expr ':' expr )*
func (p *parser) parseTernary() Node {
	expr := p.parseCall()
	for p.is(TypeOf) {
		t := p.next()
		left := p.parseExpr()
		p.expect(Separator, "between branches of conditional expression")
		right := p.parseExpr()
		expr = &Ternary{node: node{At: TokenPos(t)}, Cond: expr, Left: left, Right: right}
	}
	return expr
}

// call := primary ( '(' expr* ')' )*
//
// Calls are formed for identifiers only.
func (p *parser) parseCall() Node {
	expr := p.parsePrimary()
	if _, isIdent := expr.(*Ident); !isIdent {
		return expr
	}
	for p.is(LParen) {
		t := p.next()
		args := p.parseList(RParen, "argument list")
		expr = &Call{node: node{At: TokenPos(t)}, Callee: expr, Args: args}
	}
	return expr
}

// parseList parses expressions up to and including a closing token. The
// opening token has already been consumed.
func (p *parser) parseList(closing stakk.TokType, what string) []Node {
	var list []Node
	for !p.is(closing) {
		if p.is(EOF) {
			p.fail(p.peek(), "unterminated %s", what)
		}
		list = append(list, p.parseExpr())
	}
	p.next()
	return list
}

func (p *parser) parsePrimary() Node {
	t := p.next()
	at := node{At: TokenPos(t)}
	switch t.TokType() {
	case Identifier:
		return &Ident{node: at, Name: t.Lexeme()}
	case Number:
		n, err := strconv.ParseInt(t.Lexeme(), 10, 64)
		if err != nil {
			p.fail(t, "could not convert string to number: %s", t.Lexeme())
		}
		return &NumberLit{node: at, Value: n}
	case String:
		return &StringLit{node: at, Value: TokenValue(t)}
	case LParen:
		expr := p.parseExpr()
		p.expect(RParen, "to close parenthesized expression")
		return expr
	case LBrace:
		block := &Program{node: at, Block: true}
		for !p.is(RBrace) {
			if p.is(EOF) {
				p.fail(p.peek(), "unterminated scope")
			}
			block.Stmts = append(block.Stmts, p.parseExpr())
		}
		p.next()
		return block
	case Keyword:
		return p.parseKeyword(t)
	case Push:
		return &PushExpr{node: at, Expr: p.parseExpr()}
	case TypeOf:
		return &TypeOfExpr{node: at, Expr: p.parseExpr()}
	case Pull:
		return &PullExpr{node: at}
	case EOF, RParen, RBrace:
		p.fail(t, "unexpected token: '%s'", t.Lexeme())
	}
	// every other token is a command operator
	cmd := &Command{node: at, Op: t.TokType()}
	if p.is(Times) {
		p.next()
		cmd.Repeat = p.parseExpr()
	}
	return cmd
}

// parseKeyword parses
//
//	keyword-stmt := VAR expr expr | FUN primary '(' expr* ')' expr
//	              | WHL expr | BRK | CON | RET expr | IMP expr
func (p *parser) parseKeyword(t stakk.Token) Node {
	at := node{At: TokenPos(t)}
	switch t.Lexeme() {
	case KwVar:
		name := p.parseExpr()
		return &VarDecl{node: at, Name: name, Value: p.parseExpr()}
	case KwFun:
		name := p.parsePrimary()
		p.expect(LParen, "after identifier in function declaration")
		params := p.parseList(RParen, "parameter list")
		return &FnDecl{node: at, Name: name, Params: params, Body: p.parseExpr()}
	case KwWhile:
		return &WhileLoop{node: at, Body: p.parseExpr()}
	case KwBreak:
		return &Break{node: at}
	case KwContinue:
		return &Continue{node: at}
	case KwReturn:
		return &Return{node: at, Value: p.parseExpr()}
	case KwImport:
		return &Import{node: at, Source: p.parseExpr()}
	}
	p.fail(t, "unknown keyword '%s'", t.Lexeme())
	return nil
}
