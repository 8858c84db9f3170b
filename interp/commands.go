package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/runtime"
	"github.com/npillmayer/stakk/stakklang"
	"github.com/ztrue/tracerr"
)

// evalCommand executes a command operator as often as its repeat count
// demands. The result is the value of the last iteration producing one.
func (intp *Interpreter) evalCommand(cmd *stakklang.Command, env *runtime.Scope) (runtime.Value, error) {
	count := int64(1)
	if cmd.Repeat != nil {
		n, err := intp.evalValue(cmd.Repeat, env)
		if err != nil {
			return nil, err
		}
		if intp.unwinding() {
			return intp.pendingValue(), nil
		}
		count = n.AsNumber()
	}
	var result runtime.Value = runtime.Nil
	for i := int64(0); i < count; i++ {
		v, err := intp.execute(cmd)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result = v
		}
	}
	intp.dumpStack(stakklang.TokenName(cmd.Op))
	return result, nil
}

// execute executes a command operator once.
func (intp *Interpreter) execute(cmd *stakklang.Command) (runtime.Value, error) {
	m := intp.rt.Machine
	need := func(n int) error {
		if m.Size() < n {
			if n == 1 {
				return runtimeError(cmd, "command '%c' needs a non-empty stack", rune(cmd.Op))
			}
			return runtimeError(cmd, "command '%c' needs %d values on the stack, have %d",
				rune(cmd.Op), n, m.Size())
		}
		return nil
	}
	push := func(v int64) (runtime.Value, error) {
		m.Push(v)
		return runtime.Number(v), nil
	}
	switch cmd.Op {
	case '´', '~': // read int
		line, err := intp.readLine(cmd)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return nil, runtimeError(cmd, "invalid number: %q", line)
		}
		return push(n)
	case '`': // read char
		if err := intp.out.Flush(); err != nil {
			return nil, runtimeError(cmd, "cannot write output: %v", err)
		}
		r, err := intp.keys.ReadKey()
		if err != nil {
			return nil, runtimeError(cmd, "cannot read keystroke: %v", err)
		}
		return push(int64(r))
	case '!':
		if err := need(1); err != nil {
			return nil, err
		}
		return push(boolean(m.Pop() == 0))
	case '@':
		tracer().Infof("halt")
		if err := intp.out.Flush(); err != nil {
			return nil, runtimeError(cmd, "cannot write output: %v", err)
		}
		return nil, tracerr.Wrap(stakk.ErrHalt)
	case '$':
		return runtime.Number(m.Pop()), nil
	case '%':
		if err := need(2); err != nil {
			return nil, err
		}
		a, b := m.Pop(), m.Pop()
		if a == 0 {
			return nil, runtimeError(cmd, "modulo by zero")
		}
		return push(b % a)
	case '^':
		if err := need(1); err != nil {
			return nil, err
		}
		a := m.Pop()
		if a < 0 {
			return nil, runtimeError(cmd, "square root of negative number %d", a)
		}
		return push(isqrt(a))
	case '&': // read line
		line, err := intp.readLine(cmd)
		if err != nil {
			return nil, err
		}
		pushString(m, line)
		return runtime.String(line), nil
	case '*':
		if err := need(2); err != nil {
			return nil, err
		}
		return push(m.Pop() * m.Pop())
	case '-':
		if err := need(2); err != nil {
			return nil, err
		}
		a, b := m.Pop(), m.Pop()
		return push(b - a)
	case '+':
		if err := need(2); err != nil {
			return nil, err
		}
		return push(m.Pop() + m.Pop())
	case '=':
		if err := need(2); err != nil {
			return nil, err
		}
		return push(boolean(m.Pop() == m.Pop()))
	case '\\': // swap
		a, b := m.Pop(), m.Pop()
		m.Push(a)
		return push(b)
	case ':': // dup
		return push(m.Top())
	case '\'': // negate
		if err := need(1); err != nil {
			return nil, err
		}
		return push(-m.Pop())
	case ',':
		if err := need(1); err != nil {
			return nil, err
		}
		if _, err := intp.out.WriteRune(rune(m.Pop())); err != nil {
			return nil, runtimeError(cmd, "cannot write output: %v", err)
		}
		return nil, nil
	case '<':
		if err := need(2); err != nil {
			return nil, err
		}
		a, b := m.Pop(), m.Pop()
		return push(boolean(a > b))
	case '>':
		if err := need(2); err != nil {
			return nil, err
		}
		a, b := m.Pop(), m.Pop()
		return push(boolean(a < b))
	case '.':
		if err := need(1); err != nil {
			return nil, err
		}
		if _, err := intp.out.WriteString(strconv.FormatInt(m.Pop(), 10)); err != nil {
			return nil, runtimeError(cmd, "cannot write output: %v", err)
		}
		return nil, nil
	case '/':
		if err := need(2); err != nil {
			return nil, err
		}
		a, b := m.Pop(), m.Pop()
		if a == 0 {
			return nil, runtimeError(cmd, "division by zero")
		}
		return push(b / a)
	case stakklang.Size:
		return push(int64(m.Size()))
	case '[': // load register
		if err := need(1); err != nil {
			return nil, err
		}
		return push(m.Register(m.Pop()))
	case ']': // store register
		if err := need(2); err != nil {
			return nil, err
		}
		i, v := m.Pop(), m.Pop()
		m.SetRegister(i, v)
		return runtime.Number(v), nil
	}
	return nil, runtimeError(cmd, "unknown command '%s'", stakklang.TokenName(cmd.Op))
}

// readLine flushes pending output and reads a line of input.
func (intp *Interpreter) readLine(cmd *stakklang.Command) (string, error) {
	if err := intp.out.Flush(); err != nil {
		return "", runtimeError(cmd, "cannot write output: %v", err)
	}
	line, err := intp.lines.ReadLine()
	if err != nil {
		return "", runtimeError(cmd, "cannot read input: %v", err)
	}
	return line, nil
}

func boolean(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// isqrt returns the largest x with x*x <= a.
func isqrt(a int64) int64 {
	x := int64(math.Sqrt(float64(a)))
	for x > 0 && x*x > a {
		x--
	}
	for (x+1)*(x+1) > 0 && (x+1)*(x+1) <= a {
		x++
	}
	return x
}
