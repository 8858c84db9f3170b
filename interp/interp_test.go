package interp

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalTestCase runs a source text on a fresh interpreter and checks its
// result, the operand stack (top first), program output and errors.
type evalTestCase struct {
	name    string
	source  string
	input   string
	result  runtime.Value
	stack   []int64
	output  string
	wantErr string
}

func (et evalTestCase) run(t *testing.T) {
	var out bytes.Buffer
	intp := New(WithInput(strings.NewReader(et.input)), WithOutput(&out))
	v, err := intp.EvalSource(et.source)
	if et.wantErr != "" {
		require.Error(t, err, "expected an error for %q", et.source)
		assert.Contains(t, err.Error(), et.wantErr)
		return
	}
	require.NoError(t, err, "evaluating %q", et.source)
	if et.result != nil {
		assert.Equal(t, et.result, v, "result of %q", et.source)
	}
	if et.stack != nil {
		assert.Equal(t, et.stack, stackOf(intp), "stack after %q", et.source)
	}
	assert.Equal(t, et.output, out.String(), "output of %q", et.source)
}

type evalTestCases []evalTestCase

func (ets evalTestCases) run(t *testing.T) {
	for _, et := range ets {
		if !t.Run(et.name, et.run) {
			return
		}
	}
}

func stackOf(intp *Interpreter) []int64 {
	vals := intp.Machine().Values()
	if vals == nil {
		return []int64{}
	}
	return vals
}

func TestStatements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	evalTestCases{
		{name: "number", source: `42`, result: runtime.Number(42), stack: []int64{}},
		{name: "string", source: `"hi"`, result: runtime.String("hi")},
		{name: "empty program", source: ``, result: runtime.Nil},
		{name: "empty block", source: `{ }`, result: runtime.Nil},
		{name: "last statement wins", source: `{ 1 2 3 }`, result: runtime.Number(3)},
		{name: "constants", source: `Yes`, result: runtime.Number(1)},
		{name: "nil constant", source: `Nil`, result: runtime.Nil},
		{name: "var", source: `VAR x 5 x`, result: runtime.Number(5)},
		{name: "var yields value", source: `VAR x "a"`, result: runtime.String("a")},
		{name: "shadowing", source: `VAR x 5 { VAR x 6 x } x`, result: runtime.Number(5)},
		{name: "inner scope sees outer", source: `VAR x 5 { x }`, result: runtime.Number(5)},
		{name: "block scope ends", source: `{ VAR y 1 } y`, wantErr: "variable 'y' does not exist"},
		{name: "undefined variable", source: `y`, wantErr: "variable 'y' does not exist"},
		{name: "var needs identifier", source: `VAR 1 2`, wantErr: "VAR expects an identifier"},
		{name: "push number", source: `;1 ;2`, result: runtime.Number(2), stack: []int64{2, 1}},
		{name: "push string", source: `;"ab"`, result: runtime.String("ab"), stack: []int64{'a', 'b'}},
		{name: "push keyword", source: `PSH 7`, stack: []int64{7}},
		{name: "push nil", source: `;Nil`, wantErr: "invalid value pushed"},
		{name: "push function", source: `FUN f () 0 ;f`, wantErr: "invalid value pushed"},
		{name: "pull", source: `;1 ;2 #`, result: runtime.Number(2), stack: []int64{1}},
		{name: "pull keyword", source: `;3 PUL`, result: runtime.Number(3), stack: []int64{}},
		{name: "pull empty", source: `#`, wantErr: "cannot pull from empty stack"},
		{name: "pull string in order", source: `;"ab" # #`, result: runtime.Number('b')},
		{name: "typeof number", source: `TYP 1`, result: runtime.Number(runtime.NumberType), stack: []int64{0}},
		{name: "typeof string", source: `? "s"`, result: runtime.Number(runtime.StringType)},
		{name: "typeof nil", source: `TYP Nil`, result: runtime.Number(runtime.NullType)},
		{name: "typeof function", source: `FUN f () 0 (TYP f)`, result: runtime.Number(runtime.FunctionType)},
		{name: "type constants", source: `TYP "" ;String_t =`, stack: []int64{1}},
		{name: "ternary true", source: `;1 ;1 = ? "yes" : "no"`, result: runtime.String("yes"), stack: []int64{}},
		{name: "ternary false", source: `;1 ;2 = ? "yes" : "no"`, result: runtime.String("no")},
		{name: "ternary empty stack", source: `{ } ? 1 : 2`, result: runtime.Number(2)},
		{name: "ternary one branch", source: `;0 : ? ;1 : ;2`, stack: []int64{2, 0}},
	}.run(t)
}

func TestFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	evalTestCases{
		{name: "declaration yields function", source: `TYP FUN f () 0`, result: runtime.Number(runtime.FunctionType)},
		{name: "call", source: `FUN add (a b) { ;a ;b + # } add(3 4)`, result: runtime.Number(7), stack: []int64{}},
		{name: "call without params", source: `FUN one () 1 one()`, result: runtime.Number(1)},
		{
			name: "recursion",
			source: `FUN fact (n) {
				;n ;1 < ? 1 : { VAR m fact({ ;n ;1 - # }) ;n ;m * # }
			}
			fact(5)`,
			result: runtime.Number(120),
			stack:  []int64{},
		},
		{name: "closure captures definition scope", source: `VAR x 1 FUN get () x { VAR x 2 get() }`, result: runtime.Number(1)},
		{
			name:   "closure outlives scope",
			source: `FUN mk () { VAR c 10 FUN inc () { ;c ;1 + # } inc } VAR f mk() f()`,
			result: runtime.Number(11),
		},
		{name: "chained call", source: `FUN mk () { FUN k (a) a k } mk()(9)`, result: runtime.Number(9)},
		{name: "params are local", source: `FUN f (a) a f(1) a`, wantErr: "variable 'a' does not exist"},
		{name: "not a function", source: `VAR x 1 x()`, wantErr: "not a function"},
		{name: "arity", source: `FUN f (a) a f()`, wantErr: "f expects 1 arguments, have 0"},
		{name: "param not identifier", source: `FUN f (1) 0`, wantErr: "not an identifier"},
		{name: "name not identifier", source: `FUN "f" () 0`, wantErr: "FUN expects an identifier"},
		{name: "return", source: `FUN f () { RET 1 2 } f()`, result: runtime.Number(1)},
		{
			name:   "return unwinds blocks and loops",
			source: `FUN f () { ;1 WHL { { RET 42 } ;99 . } ;7 . } f()`,
			result: runtime.Number(42),
			output: "",
		},
		{
			name:   "return targets innermost call",
			source: `FUN g () { RET 1 } FUN f () { g() ;5 . RET 2 } f()`,
			result: runtime.Number(2),
			output: "5",
		},
		{name: "return outside function", source: `RET 1`, wantErr: "RET outside of function"},
		{name: "break does not cross calls", source: `FUN f () BRK ;1 WHL { f() }`, wantErr: "BRK outside of loop"},
		{
			name:   "return in argument skips the call",
			source: `FUN f (a) { ;a . ;2 . } FUN g () { f(RET 7) ;3 . } g()`,
			result: runtime.Number(7),
			stack:  []int64{},
			output: "",
		},
		{
			name:   "return in later argument",
			source: `FUN f (a b) { ;1 . } FUN g () { f({ ;4 . 0 } RET 8) } g()`,
			result: runtime.Number(8),
			output: "4",
		},
		{name: "return in var value", source: `FUN g () { VAR x RET 3 ;x . } g()`, result: runtime.Number(3), output: ""},
	}.run(t)
}

func TestLoops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	evalTestCases{
		{name: "empty stack", source: `WHL { ;1 . }`, result: runtime.Nil, output: ""},
		{name: "false condition", source: `;0 WHL { ;1 . }`, output: "", stack: []int64{}},
		{
			name:   "count",
			source: `;0 ;1 WHL { : . ;10 , ;1 + : ;3 < } $`,
			output: "0\n1\n2\n",
			stack:  []int64{},
		},
		{name: "break yields last value", source: `;1 WHL { ;5 BRK ;6 }`, result: runtime.Number(5), stack: []int64{5}},
		{
			name:   "continue",
			source: `;3 ;1 WHL { ;1 - : ;2 = ? { : CON } : 0 : . : }`,
			output: "10",
			stack:  []int64{0},
		},
		{
			name:   "break in argument skips the call",
			source: `;1 WHL { FUN f (a) { ;4 . ;5 . } f(BRK) ;9 . }`,
			stack:  []int64{},
			output: "",
		},
		{name: "break in var value does not bind", source: `;1 WHL VAR x BRK x`, wantErr: "variable 'x' does not exist"},
		{name: "break in push pushes nothing", source: `;1 WHL { ;BRK }`, stack: []int64{}},
		{name: "break in typeof pushes nothing", source: `;1 WHL { TYP BRK }`, stack: []int64{}},
		{name: "break outside loop", source: `BRK`, wantErr: "BRK outside of loop"},
		{name: "continue outside loop", source: `{ CON }`, wantErr: "CON outside of loop"},
		{name: "nested break", source: `;1 WHL { ;1 WHL { BRK } ;8 . BRK }`, output: "8"},
	}.run(t)
}

func TestImport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	dir, err := ioutil.TempDir("", "stakk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	lib := filepath.Join(dir, "lib.stk")
	require.NoError(t, ioutil.WriteFile(lib, []byte(`FUN twice (n) { ;n ;2 * # }`), 0644))
	//
	evalTestCases{
		{name: "inline source", source: `IMP ";40 ;2 +"`, result: runtime.Number(42), stack: []int64{42}},
		{name: "caller environment", source: `VAR y 3 IMP "VAR z {;y ;y * #}" z`, result: runtime.Number(9)},
		{name: "nonexistent file is source", source: `IMP "does/not/exist"`, wantErr: "variable 'does' does not exist"},
		{name: "file", source: `IMP "` + filepath.ToSlash(lib) + `" twice(21)`, result: runtime.Number(42)},
		{name: "syntax error", source: `IMP "{"`, wantErr: "unterminated scope"},
	}.run(t)
}

func TestImportCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	_, err := intp.EvalSource(`IMP ";1" IMP ";1" IMP ";2"`)
	require.NoError(t, err)
	assert.Equal(t, 2, intp.imports.size())
	p1, err := intp.imports.lookup(";1")
	require.NoError(t, err)
	p2, err := intp.imports.lookup(";1")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, []int64{2, 1, 1}, stackOf(intp))
	long := strings.Repeat(";1 $ ", 1000)
	_, err = intp.imports.lookup(long)
	require.NoError(t, err)
	keylen := -1
	for key := range intp.imports.programs {
		if keylen < 0 {
			keylen = len(key)
		}
		assert.Equal(t, keylen, len(key), "cache keys are digests of equal length")
		assert.NotContains(t, key, ";1")
	}
}

func TestSharedRuntime(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	rt := runtime.NewRuntimeEnvironment()
	first := New(WithRuntime(rt), WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	second := New(WithRuntime(rt), WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	_, err := first.EvalSource(`FUN sq (n) { ;n : * # } ;3`)
	require.NoError(t, err)
	v, err := second.EvalSource(`sq(#)`)
	require.NoError(t, err)
	assert.Equal(t, runtime.Number(9), v)
	assert.Same(t, rt, second.Runtime())
	assert.Same(t, first.Machine(), second.Machine())
}

func TestErrorKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	_, err := intp.EvalSource(`;5 ;0 /`)
	require.Error(t, err)
	e := stakk.AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, stakk.RuntimeError, e.Kind)
	assert.Equal(t, 1, e.Pos.Line)
	assert.Equal(t, 7, e.Pos.Column)
	//
	_, err = intp.EvalSource(`"abc`)
	require.Error(t, err)
	assert.Equal(t, stakk.LexError, stakk.AsError(err).Kind)
	//
	_, err = intp.EvalSource(`VAR x`)
	require.Error(t, err)
	assert.Equal(t, stakk.ParseError, stakk.AsError(err).Kind)
}

func TestHalt(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	var out bytes.Buffer
	intp := New(WithInput(strings.NewReader("")), WithOutput(&out))
	_, err := intp.EvalSource(`;1 . FUN f () { ;1 WHL { @ } } f() ;2 .`)
	require.Error(t, err)
	assert.True(t, stakk.IsHalt(err))
	assert.Nil(t, stakk.AsError(err))
	assert.Equal(t, "1", out.String())
}

func TestStatePersistsAcrossEvaluations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	_, err := intp.EvalSource(`VAR x 7 ;1`)
	require.NoError(t, err)
	v, err := intp.EvalSource(`;x + #`)
	require.NoError(t, err)
	assert.Equal(t, runtime.Number(8), v)
	assert.Contains(t, intp.Globals().Names(), "x")
}

func TestResetAfterError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
	_, err := intp.EvalSource(`FUN f () { ;1 WHL { ;1 ;0 / } } f()`)
	require.Error(t, err)
	assert.Equal(t, 0, intp.Runtime().MemFrameStack.Depth())
	_, err = intp.EvalSource(`RET 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RET outside of function")
	_, err = intp.EvalSource(`BRK`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRK outside of loop")
}

func TestMaxCallDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard), WithMaxCallDepth(50))
	_, err := intp.EvalSource(`FUN f () f() f()`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call stack overflow")
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	dir, err := ioutil.TempDir("", "stakk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	prog := filepath.Join(dir, "hello.stk")
	require.NoError(t, ioutil.WriteFile(prog, []byte(`;"Hi" , ,`), 0644))
	var out bytes.Buffer
	intp := New(WithOutput(&out))
	_, err = intp.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, "Hi", out.String())
	_, err = intp.Run(filepath.Join(dir, "missing.stk"))
	assert.Error(t, err)
}

func TestParallelInterpreters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stakk.interp")
	defer teardown()
	//
	const source = `FUN sum (n) { ;n ;1 < ? 0 : { VAR r sum({ ;n ;1 - # }) ;n ;r + # } } sum(%d)`
	var wg sync.WaitGroup
	results := make([]runtime.Value, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			intp := New(WithInput(strings.NewReader("")), WithOutput(ioutil.Discard))
			results[i], errs[i] = intp.EvalSource(strings.Replace(source, "%d", "100", 1))
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, runtime.Number(5050), results[i])
	}
}
