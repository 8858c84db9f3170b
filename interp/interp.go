package interp

import (
	"bufio"
	"io"
	"io/ioutil"
	"os"

	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/runtime"
	"github.com/npillmayer/stakk/stakklang"
)

// DefaultMaxCallDepth limits the nesting of function calls.
const DefaultMaxCallDepth = 10000

// Interpreter evaluates programs. Create one with New.
type Interpreter struct {
	rt           *runtime.Runtime
	lines        LineSource
	keys         KeySource
	out          *bufio.Writer
	maxCallDepth int
	generation   uint64 // last generation id handed out
	loopDepth    int    // number of active loops within the current call
	brk, cont    bool   // pending break/continue
	ret          *returnSignal
	imports      *importCache
}

// returnSignal is a pending return, targeting the call frame with generation
// id `generation`.
type returnSignal struct {
	generation uint64
	value      runtime.Value
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithInput sets r as the source for line input and keystrokes.
func WithInput(r io.Reader) Option {
	return func(intp *Interpreter) {
		src := NewReaderSource(r)
		intp.lines, intp.keys = src, src
	}
}

// WithLineSource sets the source for line input.
func WithLineSource(src LineSource) Option {
	return func(intp *Interpreter) {
		intp.lines = src
	}
}

// WithKeySource sets the source for keystrokes.
func WithKeySource(src KeySource) Option {
	return func(intp *Interpreter) {
		intp.keys = src
	}
}

// WithOutput sets the destination of program output.
func WithOutput(w io.Writer) Option {
	return func(intp *Interpreter) {
		intp.out = bufio.NewWriter(w)
	}
}

// WithRuntime lets an interpreter use an existing runtime environment.
func WithRuntime(rt *runtime.Runtime) Option {
	return func(intp *Interpreter) {
		intp.rt = rt
	}
}

// WithMaxCallDepth limits the nesting of function calls to n.
func WithMaxCallDepth(n int) Option {
	return func(intp *Interpreter) {
		intp.maxCallDepth = n
	}
}

// New creates an interpreter. Without options, it reads from os.Stdin and
// writes to os.Stdout.
func New(opts ...Option) *Interpreter {
	intp := &Interpreter{
		maxCallDepth: DefaultMaxCallDepth,
		imports:      newImportCache(),
	}
	for _, opt := range opts {
		opt(intp)
	}
	if intp.rt == nil {
		intp.rt = runtime.NewRuntimeEnvironment()
	}
	if intp.lines == nil || intp.keys == nil {
		src := NewReaderSource(os.Stdin)
		if intp.lines == nil {
			intp.lines = src
		}
		if intp.keys == nil {
			intp.keys = src
		}
	}
	if intp.out == nil {
		intp.out = bufio.NewWriter(os.Stdout)
	}
	return intp
}

// Runtime returns the runtime environment of the interpreter.
func (intp *Interpreter) Runtime() *runtime.Runtime {
	return intp.rt
}

// Globals returns the root scope.
func (intp *Interpreter) Globals() *runtime.Scope {
	return intp.rt.Globals
}

// Machine returns the stack machine.
func (intp *Interpreter) Machine() *runtime.StackMachine {
	return intp.rt.Machine
}

// Run reads the program file at path and evaluates it in the root scope.
func (intp *Interpreter) Run(path string) (runtime.Value, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return runtime.Nil, stakk.Errorf(stakk.RuntimeError, stakk.Position{}, "cannot read program: %v", err)
	}
	return intp.EvalSource(string(src))
}

// EvalSource parses and evaluates a source text in the root scope.
func (intp *Interpreter) EvalSource(source string) (runtime.Value, error) {
	prog, err := stakklang.Parse(source)
	if err != nil {
		return runtime.Nil, err
	}
	return intp.Eval(prog)
}

// Eval evaluates a program in the root scope and returns the value of the
// last statement executed. Program output is flushed before Eval returns.
func (intp *Interpreter) Eval(prog *stakklang.Program) (v runtime.Value, err error) {
	defer func() {
		if ferr := intp.out.Flush(); err == nil && ferr != nil {
			err = stakk.Errorf(stakk.RuntimeError, stakk.Position{}, "cannot write output: %v", ferr)
		}
		if err != nil {
			intp.reset()
		}
	}()
	v, err = intp.evalProgram(prog, intp.rt.Globals)
	if v == nil {
		v = runtime.Nil
	}
	return v, err
}

// reset clears the control state left behind by an aborted evaluation. The
// operand stack, registers and bindings are left untouched.
func (intp *Interpreter) reset() {
	intp.rt.MemFrameStack.Reset()
	intp.loopDepth = 0
	intp.brk, intp.cont = false, false
	intp.ret = nil
}

// nextGeneration hands out a fresh generation id.
func (intp *Interpreter) nextGeneration() uint64 {
	intp.generation++
	return intp.generation
}

// unwinding is a predicate: is a break, continue or return pending?
func (intp *Interpreter) unwinding() bool {
	return intp.ret != nil || intp.brk || intp.cont
}

func runtimeError(n stakklang.Node, format string, args ...interface{}) error {
	var pos stakk.Position
	if n != nil {
		pos = n.Pos()
	}
	return stakk.Errorf(stakk.RuntimeError, pos, format, args...)
}
