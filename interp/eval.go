package interp

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stakk/runtime"
	"github.com/npillmayer/stakk/stakklang"
)

// eval evaluates a node in environment env. Nodes which produce no value
// (break and continue, output commands) return a nil Value.
func (intp *Interpreter) eval(n stakklang.Node, env *runtime.Scope) (runtime.Value, error) {
	switch n := n.(type) {
	case *stakklang.Program:
		if n.Block {
			return intp.evalBlock(n, env)
		}
		return intp.evalProgram(n, env)
	case *stakklang.NumberLit:
		return runtime.Number(n.Value), nil
	case *stakklang.StringLit:
		return runtime.String(n.Value), nil
	case *stakklang.Ident:
		v, err := env.Resolve(n.Name)
		if err != nil {
			return nil, runtimeError(n, "%v", err)
		}
		return v, nil
	case *stakklang.VarDecl:
		return intp.evalVarDecl(n, env)
	case *stakklang.FnDecl:
		return intp.evalFnDecl(n, env)
	case *stakklang.WhileLoop:
		return intp.evalWhile(n, env)
	case *stakklang.Break:
		if intp.loopDepth == 0 {
			return nil, runtimeError(n, "BRK outside of loop")
		}
		intp.brk = true
		return nil, nil
	case *stakklang.Continue:
		if intp.loopDepth == 0 {
			return nil, runtimeError(n, "CON outside of loop")
		}
		intp.cont = true
		return nil, nil
	case *stakklang.Return:
		return intp.evalReturn(n, env)
	case *stakklang.Import:
		return intp.evalImport(n, env)
	case *stakklang.PushExpr:
		return intp.evalPush(n, env)
	case *stakklang.TypeOfExpr:
		v, err := intp.evalValue(n.Expr, env)
		if err != nil {
			return nil, err
		}
		if intp.unwinding() {
			return intp.pendingValue(), nil
		}
		tag := int64(v.Type())
		intp.rt.Machine.Push(tag)
		return runtime.Number(tag), nil
	case *stakklang.PullExpr:
		if intp.rt.Machine.Empty() {
			return nil, runtimeError(n, "cannot pull from empty stack")
		}
		return runtime.Number(intp.rt.Machine.Pop()), nil
	case *stakklang.Ternary:
		return intp.evalTernary(n, env)
	case *stakklang.Call:
		return intp.evalCall(n, env)
	case *stakklang.Command:
		return intp.evalCommand(n, env)
	}
	return nil, runtimeError(n, "cannot evaluate node of type %T", n)
}

// evalValue evaluates a node which has to produce a value. Nodes producing
// nothing yield Nil.
func (intp *Interpreter) evalValue(n stakklang.Node, env *runtime.Scope) (runtime.Value, error) {
	v, err := intp.eval(n, env)
	if v == nil {
		v = runtime.Nil
	}
	return v, err
}

// evalProgram evaluates a sequence of statements in env. It returns the last
// value produced. A pending break, continue or return stops the sequence.
func (intp *Interpreter) evalProgram(prog *stakklang.Program, env *runtime.Scope) (runtime.Value, error) {
	var last runtime.Value = runtime.Nil
	for _, stmt := range prog.Stmts {
		v, err := intp.eval(stmt, env)
		if err != nil {
			return last, err
		}
		if v != nil {
			last = v
		}
		if intp.ret != nil {
			return intp.ret.value, nil
		}
		if intp.brk || intp.cont {
			break
		}
	}
	return last, nil
}

// evalBlock evaluates a block in a new scope, child of env.
func (intp *Interpreter) evalBlock(block *stakklang.Program, env *runtime.Scope) (runtime.Value, error) {
	g := intp.nextGeneration()
	sc := runtime.NewScope(fmt.Sprintf("block#%d", g), env)
	return intp.evalProgram(block, sc)
}

func (intp *Interpreter) evalVarDecl(decl *stakklang.VarDecl, env *runtime.Scope) (runtime.Value, error) {
	id, ok := decl.Name.(*stakklang.Ident)
	if !ok {
		return nil, runtimeError(decl.Name, "VAR expects an identifier, have %s", stakklang.Label(decl.Name))
	}
	v, err := intp.evalValue(decl.Value, env)
	if err != nil {
		return nil, err
	}
	if intp.unwinding() {
		return intp.pendingValue(), nil
	}
	env.Set(id.Name, v)
	return v, nil
}

func (intp *Interpreter) evalFnDecl(decl *stakklang.FnDecl, env *runtime.Scope) (runtime.Value, error) {
	id, ok := decl.Name.(*stakklang.Ident)
	if !ok {
		return nil, runtimeError(decl.Name, "FUN expects an identifier, have %s", stakklang.Label(decl.Name))
	}
	fn := &runtime.Function{Name: id.Name, Env: env, Body: decl.Body}
	for _, p := range decl.Params {
		pid, ok := p.(*stakklang.Ident)
		if !ok {
			return nil, runtimeError(p, "parameter of %s is not an identifier: %s", id.Name, stakklang.Label(p))
		}
		fn.Params = append(fn.Params, pid.Name)
	}
	env.Set(id.Name, fn)
	return fn, nil
}

// evalWhile pops a condition before every iteration. The loop ends if the
// stack is empty or the condition is 0.
func (intp *Interpreter) evalWhile(loop *stakklang.WhileLoop, env *runtime.Scope) (runtime.Value, error) {
	intp.loopDepth++
	defer func() { intp.loopDepth-- }()
	var last runtime.Value = runtime.Nil
	m := intp.rt.Machine
	for !m.Empty() && m.Pop() != 0 {
		v, err := intp.eval(loop.Body, env)
		if err != nil {
			return last, err
		}
		if v != nil {
			last = v
		}
		if intp.ret != nil {
			return intp.ret.value, nil
		}
		if intp.brk {
			intp.brk = false
			break
		}
		intp.cont = false
	}
	return last, nil
}

func (intp *Interpreter) evalReturn(ret *stakklang.Return, env *runtime.Scope) (runtime.Value, error) {
	frame := intp.rt.MemFrameStack.Current()
	if frame == nil {
		return nil, runtimeError(ret, "RET outside of function")
	}
	v, err := intp.evalValue(ret.Value, env)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("return from %s#%d with %s", frame.Name, frame.Generation, runtime.Repr(v))
	intp.ret = &returnSignal{generation: frame.Generation, value: v}
	return v, nil
}

func (intp *Interpreter) evalPush(push *stakklang.PushExpr, env *runtime.Scope) (runtime.Value, error) {
	v, err := intp.evalValue(push.Expr, env)
	if err != nil {
		return nil, err
	}
	if intp.unwinding() {
		return intp.pendingValue(), nil
	}
	m := intp.rt.Machine
	switch v := v.(type) {
	case runtime.Number:
		m.Push(int64(v))
	case runtime.String:
		pushString(m, string(v))
	default:
		return nil, runtimeError(push, "invalid value pushed: %s", runtime.TypeName(v.Type()))
	}
	return v, nil
}

// pushString pushes the characters of s in reverse order, so that popping
// them yields s from left to right.
func pushString(m *runtime.StackMachine, s string) {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		m.Push(int64(runes[i]))
	}
}

func (intp *Interpreter) evalTernary(t *stakklang.Ternary, env *runtime.Scope) (runtime.Value, error) {
	if _, err := intp.eval(t.Cond, env); err != nil {
		return nil, err
	}
	if intp.unwinding() {
		return intp.pendingValue(), nil
	}
	m := intp.rt.Machine
	if !m.Empty() && m.Pop() != 0 {
		return intp.eval(t.Left, env)
	}
	return intp.eval(t.Right, env)
}

// pendingValue is the value a node yields when a signal interrupted it.
func (intp *Interpreter) pendingValue() runtime.Value {
	if intp.ret != nil {
		return intp.ret.value
	}
	return nil
}

func (intp *Interpreter) evalCall(call *stakklang.Call, env *runtime.Scope) (runtime.Value, error) {
	args := make([]runtime.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := intp.evalValue(a, env)
		if err != nil {
			return nil, err
		}
		if intp.unwinding() {
			return intp.pendingValue(), nil
		}
		args[i] = v
	}
	callee, err := intp.evalValue(call.Callee, env)
	if err != nil {
		return nil, err
	}
	if intp.unwinding() {
		return intp.pendingValue(), nil
	}
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return nil, runtimeError(call, "cannot call %s: not a function", stakklang.Label(call.Callee))
	}
	if len(args) != len(fn.Params) {
		return nil, runtimeError(call, "%s expects %d arguments, have %d", fn.Name, len(fn.Params), len(args))
	}
	frames := intp.rt.MemFrameStack
	if intp.maxCallDepth > 0 && frames.Depth() >= intp.maxCallDepth {
		return nil, runtimeError(call, "call stack overflow calling %s", fn.Name)
	}
	g := intp.nextGeneration()
	sc := runtime.NewScope(fmt.Sprintf("%s#%d", fn.Name, g), fn.Env)
	for i, p := range fn.Params {
		sc.Set(p, args[i])
	}
	frame := frames.PushNewMemoryFrame(fn.Name, sc, g)
	loops := intp.loopDepth
	intp.loopDepth = 0
	v, err := intp.evalValue(fn.Body, sc)
	intp.loopDepth = loops
	frames.PopMemoryFrame()
	if err != nil {
		return nil, err
	}
	if intp.ret != nil && intp.ret.generation == frame.Generation {
		v = intp.ret.value
		intp.ret = nil
	}
	tracer().P("call", fn.Name).Debugf("result %s", runtime.Repr(v))
	return v, nil
}

// dumpStack writes the operand stack to the trace, if tracing is at debug
// level.
func (intp *Interpreter) dumpStack(msg string) {
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracer().Debugf("%s: stack = %s", msg, intp.rt.Machine)
	}
}
