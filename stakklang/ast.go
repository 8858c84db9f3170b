package stakklang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/stakk"
)

// Node is a node of the abstract syntax tree. The set of node types is closed:
// Program, VarDecl, FnDecl, WhileLoop, Break, Continue, Return, Import, PushExpr,
// TypeOfExpr, PullExpr, Ternary, Call, Command, Ident, NumberLit and StringLit.
//
// Nodes own their children exclusively and are never modified after parsing.
type Node interface {
	Pos() stakk.Position
	isNode()
}

// node is embedded into all AST node types.
type node struct {
	At stakk.Position // position of the node's first token
}

func (n node) Pos() stakk.Position { return n.At }
func (node) isNode()               {}

// Program is a sequence of statements. It is the root of a parse, a block
// enclosed in braces, and the body of functions.
type Program struct {
	node
	Stmts []Node
	Block bool // enclosed in braces
}

// VarDecl binds the value of Value to the identifier Name.
type VarDecl struct {
	node
	Name  Node
	Value Node
}

// FnDecl declares a function.
type FnDecl struct {
	node
	Name   Node
	Params []Node
	Body   Node
}

// WhileLoop repeats Body as long as the top of the operand stack is true.
type WhileLoop struct {
	node
	Body Node
}

// Break leaves the innermost loop.
type Break struct{ node }

// Continue ends the current iteration of the innermost loop.
type Continue struct{ node }

// Return leaves the innermost function call, yielding Value.
type Return struct {
	node
	Value Node
}

// Import evaluates source text (or the contents of a file) in the current
// environment.
type Import struct {
	node
	Source Node
}

// PushExpr pushes the value of Expr onto the operand stack.
type PushExpr struct {
	node
	Expr Node
}

// TypeOfExpr pushes the type tag of the value of Expr.
type TypeOfExpr struct {
	node
	Expr Node
}

// PullExpr pops a number from the operand stack.
type PullExpr struct{ node }

// Ternary evaluates Cond, pops a condition from the operand stack and
// evaluates either Left or Right.
type Ternary struct {
	node
	Cond  Node
	Left  Node
	Right Node
}

// Call calls the function Callee evaluates to.
type Call struct {
	node
	Callee Node
	Args   []Node
}

// Command executes the single-character operator Op, Repeat times. Repeat
// is nil for an implicit repeat count of 1.
type Command struct {
	node
	Op     stakk.TokType
	Repeat Node
}

// Ident is a reference to a variable.
type Ident struct {
	node
	Name string
}

// NumberLit is an integer literal.
type NumberLit struct {
	node
	Value int64
}

// StringLit is a string literal, with escape sequences resolved.
type StringLit struct {
	node
	Value string
}

// --- Printing ---------------------------------------------------------------

// Label returns a short, one-line description of a node, without its children.
func Label(n Node) string {
	switch n := n.(type) {
	case *Program:
		if n.Block {
			return "block"
		}
		return "program"
	case *VarDecl:
		return "var"
	case *FnDecl:
		return "fun"
	case *WhileLoop:
		return "while"
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *Return:
		return "return"
	case *Import:
		return "import"
	case *PushExpr:
		return "push"
	case *TypeOfExpr:
		return "typeof"
	case *PullExpr:
		return "pull"
	case *Ternary:
		return "ternary"
	case *Call:
		return "call"
	case *Command:
		return "cmd " + TokenName(n.Op)
	case *Ident:
		return n.Name
	case *NumberLit:
		return strconv.FormatInt(n.Value, 10)
	case *StringLit:
		return strconv.Quote(n.Value)
	case nil:
		return "nil"
	}
	panic(fmt.Sprintf("unknown AST node type %T", n))
}

// Children returns the child nodes of n, in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Stmts
	case *VarDecl:
		return []Node{n.Name, n.Value}
	case *FnDecl:
		ch := make([]Node, 0, len(n.Params)+2)
		ch = append(ch, n.Name)
		ch = append(ch, n.Params...)
		return append(ch, n.Body)
	case *WhileLoop:
		return []Node{n.Body}
	case *Return:
		return []Node{n.Value}
	case *Import:
		return []Node{n.Source}
	case *PushExpr:
		return []Node{n.Expr}
	case *TypeOfExpr:
		return []Node{n.Expr}
	case *Ternary:
		return []Node{n.Cond, n.Left, n.Right}
	case *Call:
		return append([]Node{n.Callee}, n.Args...)
	case *Command:
		if n.Repeat != nil {
			return []Node{n.Repeat}
		}
	}
	return nil
}

// Format renders an AST as an s-expression, e.g.
//
//	(program (var x 5) (push x) (cmd + (times 3)))
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	ch := Children(n)
	if c, ok := n.(*Command); ok && c.Repeat != nil {
		b.WriteString("(" + Label(n) + " (times ")
		format(b, c.Repeat)
		b.WriteString("))")
		return
	}
	if len(ch) == 0 {
		switch n.(type) {
		case *Ident, *NumberLit, *StringLit, nil:
			b.WriteString(Label(n))
		default:
			b.WriteString("(" + Label(n) + ")")
		}
		return
	}
	b.WriteString("(" + Label(n))
	for _, c := range ch {
		b.WriteByte(' ')
		format(b, c)
	}
	b.WriteByte(')')
}
