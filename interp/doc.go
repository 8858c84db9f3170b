/*
Package interp implements a tree-walking interpreter for stakk programs.

An Interpreter evaluates the abstract syntax tree produced by package
stakklang. It owns a runtime environment (package runtime): a root scope with
the predefined constants, a stack of call frames and the stack machine.
Everything a program leaves on the operand stack, in registers or in the root
scope remains there for later evaluations with the same interpreter. This
makes it easy to drive an interpreter from a REPL. Independent interpreters
share no state.

	intp := interp.New(interp.WithOutput(os.Stdout))
	result, err := intp.EvalSource(`;3 ;4 + .`) // prints 7

Every error is fatal for the evaluation which raised it. Errors are of type
*stakk.Error (use stakk.AsError). A program executing the halt command ends
with stakk.ErrHalt.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'stakk.interp'
func tracer() tracing.Trace {
	return tracing.Select("stakk.interp")
}
